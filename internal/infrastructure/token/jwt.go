package token

import (
	"fmt"
	"time"

	"skuunup-auth/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds session token codec configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// sessionClaims represents the JWT claims carried by a session token.
type sessionClaims struct {
	Role     string `json:"role"`
	TenantID string `json:"tid"`
	jwt.RegisteredClaims
}

// JWTCodec signs and verifies session tokens as HS256 JWTs.
// Implements domain.TokenCodec.
type JWTCodec struct {
	cfg JWTConfig
}

// NewJWTCodec creates a new JWT session token codec.
func NewJWTCodec(cfg JWTConfig) *JWTCodec {
	return &JWTCodec{cfg: cfg}
}

// Sign generates a signed session token for the claim set. Every claim is
// required; the expiry is now + the configured validity window.
func (j *JWTCodec) Sign(claims domain.SessionClaims) (string, error) {
	if claims.SubjectID == uuid.Nil {
		return "", fmt.Errorf("%w: subject id is required", domain.ErrTokenEncoding)
	}
	if claims.Role == "" {
		return "", fmt.Errorf("%w: role is required", domain.ErrTokenEncoding)
	}
	if claims.TenantID == uuid.Nil {
		return "", fmt.Errorf("%w: tenant id is required", domain.ErrTokenEncoding)
	}

	now := time.Now()
	jwtClaims := sessionClaims{
		Role:     string(claims.Role),
		TenantID: claims.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   claims.SubjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := tok.SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenEncoding, err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry and recovers the claim set.
// Expired or tampered tokens fail closed with ErrInvalidToken; the HMAC
// comparison inside the jwt library is constant-time.
func (j *JWTCodec) Verify(token string) (*domain.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{},
		func(t *jwt.Token) (any, error) {
			return []byte(j.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.Issuer),
		jwt.WithAudience(j.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject: %w", domain.ErrInvalidToken, err)
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed tenant id: %w", domain.ErrInvalidToken, err)
	}

	return &domain.SessionClaims{
		SubjectID: subjectID,
		Role:      domain.Role(claims.Role),
		TenantID:  tenantID,
	}, nil
}
