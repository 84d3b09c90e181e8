// Package token verifies and mints the signed bearer tokens that identify
// callers across the campus services. A verified token yields a Claims value
// carrying the subject and role; the claims live for one request only.
package token

import (
	"errors"
	"fmt"
	"time"

	dErrors "campus/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the caller's role as carried in the token. The set is closed:
// every credential is exactly one of admin, teacher, or student.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole validates a raw role string against the closed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Claims is the identity derived from a verified token.
type Claims struct {
	Subject   string
	Role      Role
	Issuer    string
	ExpiresAt time.Time
}

// signedClaims is the wire shape of our JWTs: a custom role claim on top of
// the registered claim set.
type signedClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies and mints HS256 tokens with a shared signing key.
// All three services use the same key so a token issued for one caller is
// valid when forwarded to a peer for an existence check.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey, issuer string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Mint issues a signed token for the given subject and role.
// Used by the tokengen CLI and by tests; the services themselves only verify.
func (s *Service) Mint(subject string, role Role) (string, error) {
	return s.MintWithExpiry(subject, role, time.Now().Add(s.ttl))
}

// MintWithExpiry issues a token with an explicit expiry. Expiries in the past
// are allowed so tests can exercise the expired-token path.
func (s *Service) MintWithExpiry(subject string, role Role, expiresAt time.Time) (string, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid role")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, signedClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a raw token and extracts claims.
// It performs no I/O; every failure maps to CodeUnauthorized so the HTTP
// layer answers 401 without leaking why the token was rejected.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "empty token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &signedClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*signedClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token role")
	}

	out := &Claims{
		Subject: claims.Subject,
		Role:    role,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
