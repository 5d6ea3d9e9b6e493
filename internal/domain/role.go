package domain

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleStudent     Role = "STUDENT"
	RoleTeacher     Role = "TEACHER"
	RoleHeadTeacher Role = "HEAD_TEACHER"
	RolePrincipal   Role = "PRINCIPAL"
	RoleBursar      Role = "BURSAR"
	RoleLibrarian   Role = "LIBRARIAN"
	RoleSecretary   Role = "SECRETARY"
	RoleCounselor   Role = "COUNSELOR"
	RoleStaff       Role = "STAFF"
	RoleGuardian    Role = "GUARDIAN"
	RoleSuperAdmin  Role = "SUPER_ADMIN"
)

// Partition classifies a role for profile hydration.
type Partition string

const (
	PartitionStudent Partition = "STUDENT"
	PartitionStaff   Partition = "STAFF"
	PartitionOther   Partition = "OTHER"
)

// Roles lists every member of the role enum.
var Roles = []Role{
	RoleStudent,
	RoleTeacher,
	RoleHeadTeacher,
	RolePrincipal,
	RoleBursar,
	RoleLibrarian,
	RoleSecretary,
	RoleCounselor,
	RoleStaff,
	RoleGuardian,
	RoleSuperAdmin,
}

// partitions is the static role → partition table. Total over Roles; the
// hydration path is decided here, never inferred at call time.
var partitions = map[Role]Partition{
	RoleStudent:     PartitionStudent,
	RoleTeacher:     PartitionStaff,
	RoleHeadTeacher: PartitionStaff,
	RolePrincipal:   PartitionStaff,
	RoleBursar:      PartitionStaff,
	RoleLibrarian:   PartitionStaff,
	RoleSecretary:   PartitionStaff,
	RoleCounselor:   PartitionStaff,
	RoleStaff:       PartitionStaff,
	RoleGuardian:    PartitionOther,
	RoleSuperAdmin:  PartitionOther,
}

// Partition returns the hydration partition for the role. Roles outside the
// enum classify as OTHER so an unknown value can never trigger a profile
// fetch.
func (r Role) Partition() Partition {
	if p, ok := partitions[r]; ok {
		return p
	}
	return PartitionOther
}

// IsValid reports whether the role is a member of the enum.
func (r Role) IsValid() bool {
	_, ok := partitions[r]
	return ok
}

// roleAliases maps operator-entered position strings to roles. Loaded from
// the embedded table so changes are reviewed alongside schema migrations.
var roleAliases map[string]Role

//go:embed role_aliases.yaml
var roleAliasesYAML []byte

func init() {
	var table struct {
		Aliases map[string]Role `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(roleAliasesYAML, &table); err != nil {
		panic(fmt.Sprintf("domain: invalid role alias table: %v", err))
	}
	roleAliases = make(map[string]Role, len(table.Aliases))
	for alias, role := range table.Aliases {
		if !role.IsValid() {
			panic(fmt.Sprintf("domain: role alias %q maps to unknown role %q", alias, role))
		}
		roleAliases[strings.ToLower(strings.TrimSpace(alias))] = role
	}
}

// EffectiveRole derives the authorization role for a record: the enumerated
// role column, refined by the operator-entered position title for staff.
func (r *IdentityRecord) EffectiveRole() Role {
	role := r.Role
	if !role.IsValid() {
		role = NormalizeRole(string(role))
	}
	if role.Partition() == PartitionStaff && r.Position != nil && strings.TrimSpace(*r.Position) != "" {
		role = NormalizeRole(*r.Position)
	}
	return role
}

// NormalizeRole maps a raw position or role string to a member of the role
// enum. Matching is case-insensitive and whitespace-trimmed. Position text is
// operator-entered and drifts from the canonical list, so unmatched input
// falls back to the generic STAFF role instead of failing.
func NormalizeRole(raw string) Role {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return RoleStaff
	}
	if role := Role(strings.ToUpper(normalized)); role.IsValid() {
		return role
	}
	if role, ok := roleAliases[normalized]; ok {
		return role
	}
	return RoleStaff
}
