package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediccare/platform/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func verificationKind(t *testing.T, err error) VerificationKind {
	t.Helper()
	var verr *VerificationError
	require.True(t, errors.As(err, &verr), "expected VerificationError, got %v", err)
	return verr.Kind
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	for _, role := range []domain.Role{domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin} {
		token, exp, err := tm.Mint("user_"+string(role), role)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)

		identity, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user_"+string(role), identity.Subject)
		assert.Equal(t, role, identity.Role)
	}
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", DefaultTokenTTL)
	tm.now = fixedClock(issued)

	token, exp, err := tm.Mint("alice", domain.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(24*time.Hour), exp)

	tm.now = fixedClock(issued.Add(23 * time.Hour))
	_, err = tm.Verify(token)
	require.NoError(t, err)

	tm.now = fixedClock(issued.Add(24*time.Hour + time.Minute))
	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.Equal(t, VerificationExpired, verificationKind(t, err))
	assert.Equal(t, "token expired", err.Error())
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	minter := NewTokenManager("secret-a", 0)
	verifier := NewTokenManager("secret-b", 0)

	token, _, err := minter.Mint("alice", domain.RolePatient)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.Equal(t, VerificationBadSignature, verificationKind(t, err))
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.Verify(raw)
		require.Error(t, err, raw)
		assert.Equal(t, VerificationMalformed, verificationKind(t, err), raw)
	}
}

func TestTokenRejectsUnknownRoleAndMissingSubject(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	now := time.Now()

	sign := func(claims Claims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}

	badRole := sign(Claims{Role: "nurse", RegisteredClaims: jwt.RegisteredClaims{
		Subject: "x", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}})
	_, err := tm.Verify(badRole)
	assert.Equal(t, VerificationMalformed, verificationKind(t, err))

	noSubject := sign(Claims{Role: "PATIENT", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}})
	_, err = tm.Verify(noSubject)
	assert.Equal(t, VerificationMalformed, verificationKind(t, err))
}

func TestTokenRequiresExpiryAndHS256(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "PATIENT",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tm.Verify(noExp)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mallory",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.Verify(unsigned)
	var verr *VerificationError
	assert.True(t, errors.As(err, &verr))
}
