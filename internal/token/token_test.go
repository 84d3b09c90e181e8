package token

import (
	"testing"
	"time"

	dErrors "campus/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-signing-key", "campus-test", 15*time.Minute)
}

func TestMintVerifyRoundtrip(t *testing.T) {
	svc := newTestService()

	signed, err := svc.Mint("student-42", RoleStudent)
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "student-42", claims.Subject)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.Equal(t, "campus-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestService()

	// Correctly signed but expired: expiry wins over signature validity.
	signed, err := svc.MintWithExpiry("teacher-1", RoleTeacher, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.EqualError(t, err, "token expired")
}

func TestVerifyWrongKey(t *testing.T) {
	other := NewService("different-key", "campus-test", 15*time.Minute)
	signed, err := other.Mint("admin-1", RoleAdmin)
	require.NoError(t, err)

	_, err = newTestService().Verify(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerifyGarbage(t *testing.T) {
	svc := newTestService()

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(tokenString)
		assert.Error(t, err, "token %q must be rejected", tokenString)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}

func TestMintRejectsUnknownRole(t *testing.T) {
	svc := newTestService()
	_, err := svc.Mint("someone", Role("superuser"))
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"teacher", RoleTeacher, false},
		{"student", RoleStudent, false},
		{"Admin", "", true},
		{"", "", true},
		{"root", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "role %q", tt.in)
		} else {
			require.NoError(t, err, "role %q", tt.in)
			assert.Equal(t, tt.want, got)
		}
	}
}
