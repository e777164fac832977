package token_test

import (
	"testing"
	"time"

	"github.com/ChathuminaK/SkillWave-sub000/token"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, subject string, issuedAt, expiresAt time.Time) string {
	t.Helper()

	claims := jwtlib.MapClaims{
		"sub": subject,
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestDecodeExtractsClaims(t *testing.T) {
	issuedAt := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(time.Hour)
	raw := signedToken(t, "user-42", issuedAt, expiresAt)

	claims, ok := token.Decode(raw)
	require.True(t, ok)
	require.Equal(t, "user-42", claims.Subject)
	require.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	require.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeMalformedTokenIsAbsent(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-token", "a.b", "a.%%%.c"} {
		_, ok := token.Decode(raw)
		require.False(t, ok, "token %q should not decode", raw)
	}
}

func TestIsExpiringAgainstThreshold(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	inspector := token.NewInspector(5*time.Minute, token.WithNowTime(func() time.Time { return now }))

	// Expires well beyond the threshold
	fresh := signedToken(t, "user-42", now, now.Add(time.Hour))
	require.False(t, inspector.IsExpiring(fresh))

	// Expires inside the threshold
	expiring := signedToken(t, "user-42", now.Add(-time.Hour), now.Add(10*time.Second))
	require.True(t, inspector.IsExpiring(expiring))

	// Already expired
	expired := signedToken(t, "user-42", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.True(t, inspector.IsExpiring(expired))

	// Expiry exactly at now+threshold counts as expiring
	boundary := signedToken(t, "user-42", now, now.Add(5*time.Minute))
	require.True(t, inspector.IsExpiring(boundary))
}

func TestIsExpiringIsPure(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	inspector := token.NewInspector(5*time.Minute, token.WithNowTime(func() time.Time { return now }))
	raw := signedToken(t, "user-42", now, now.Add(time.Hour))

	first := inspector.IsExpiring(raw)
	second := inspector.IsExpiring(raw)
	require.Equal(t, first, second)
}

func TestIsExpiringFailsSafeOnMalformedToken(t *testing.T) {
	inspector := token.NewInspector(5 * time.Minute)

	require.True(t, inspector.IsExpiring("garbage"))
	require.True(t, inspector.IsExpiring(""))
}

func TestIsExpiringMissingExpCountsAsExpiring(t *testing.T) {
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "user-42",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	inspector := token.NewInspector(5 * time.Minute)
	require.True(t, inspector.IsExpiring(raw))
}
