package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the school instance an identity belongs to. Every identity is
// scoped to exactly one tenant.
type Tenant struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Domain string    `json:"domain"`
}

// IdentityRecord is the raw identity row returned by the identity store,
// before role classification and profile hydration.
type IdentityRecord struct {
	ID         uuid.UUID
	Surname    string
	FirstName  string
	OtherNames *string
	Email      string
	Role       Role
	Position   *string
	TenantID   uuid.UUID
	Tenant     Tenant
}

// RoleProfile is the role-dependent profile attached to a resolved identity.
// Exactly one concrete type is populated for the STUDENT and STAFF
// partitions; identities in the OTHER partition carry no profile (nil).
type RoleProfile interface {
	isRoleProfile()
}

// StudentProfile holds the student's most recent admission application
// together with its prior-school and family-member references.
type StudentProfile struct {
	AdmissionApplicationID *uuid.UUID  `json:"admissionApplicationId"`
	PriorSchoolIDs         []uuid.UUID `json:"priorSchoolIds,omitempty"`
	FamilyMemberIDs        []uuid.UUID `json:"familyMemberIds,omitempty"`
}

func (*StudentProfile) isRoleProfile() {}

// StaffProfile holds the staff member's most recent position application
// together with its prior-job and subject references.
type StaffProfile struct {
	PositionApplicationID *uuid.UUID  `json:"positionApplicationId"`
	PriorJobIDs           []uuid.UUID `json:"priorJobIds,omitempty"`
	SubjectIDs            []uuid.UUID `json:"subjectIds,omitempty"`
}

func (*StaffProfile) isRoleProfile() {}

// ResolvedIdentity is the outcome of a successful session resolution.
// Its TenantID always equals the tenant id carried by the verified token.
type ResolvedIdentity struct {
	SubjectID  uuid.UUID   `json:"subjectId"`
	Surname    string      `json:"surname"`
	FirstName  string      `json:"firstName"`
	OtherNames *string     `json:"otherNames,omitempty"`
	Email      string      `json:"email"`
	Role       Role        `json:"role"`
	TenantID   uuid.UUID   `json:"tenantId"`
	Tenant     Tenant      `json:"tenant"`
	ResolvedAt time.Time   `json:"resolvedAt"`
	Profile    RoleProfile `json:"profile,omitempty"`
}

// StudentProfile returns the student profile, or nil for other partitions.
func (r *ResolvedIdentity) StudentProfile() *StudentProfile {
	if p, ok := r.Profile.(*StudentProfile); ok {
		return p
	}
	return nil
}

// StaffProfile returns the staff profile, or nil for other partitions.
func (r *ResolvedIdentity) StaffProfile() *StaffProfile {
	if p, ok := r.Profile.(*StaffProfile); ok {
		return p
	}
	return nil
}

// Clone returns a deep copy. The cache hands out clones so callers can never
// mutate cached state.
func (r *ResolvedIdentity) Clone() *ResolvedIdentity {
	clone := *r
	if r.OtherNames != nil {
		v := *r.OtherNames
		clone.OtherNames = &v
	}
	switch p := r.Profile.(type) {
	case *StudentProfile:
		cp := &StudentProfile{
			PriorSchoolIDs:  append([]uuid.UUID(nil), p.PriorSchoolIDs...),
			FamilyMemberIDs: append([]uuid.UUID(nil), p.FamilyMemberIDs...),
		}
		if p.AdmissionApplicationID != nil {
			id := *p.AdmissionApplicationID
			cp.AdmissionApplicationID = &id
		}
		clone.Profile = cp
	case *StaffProfile:
		cp := &StaffProfile{
			PriorJobIDs: append([]uuid.UUID(nil), p.PriorJobIDs...),
			SubjectIDs:  append([]uuid.UUID(nil), p.SubjectIDs...),
		}
		if p.PositionApplicationID != nil {
			id := *p.PositionApplicationID
			cp.PositionApplicationID = &id
		}
		clone.Profile = cp
	}
	return &clone
}

// SessionClaims is the minimal claim set carried by a session token.
type SessionClaims struct {
	SubjectID uuid.UUID
	Role      Role
	TenantID  uuid.UUID
}
