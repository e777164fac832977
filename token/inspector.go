package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the decoded, unverified view of an access token. It is derived
// from the raw token string on demand and never persisted.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Decode extracts the registered claims from a JWT without verifying its
// signature; verification belongs to the server that minted it. Malformed
// input reports absence instead of an error so a bad token can never
// crash a caller.
func Decode(raw string) (Claims, bool) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, false
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, false
	}

	claims := Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, true
}

// Inspector answers whether an access token is within the configured
// threshold of expiring. It is a pure function of the token string and the
// clock; it holds no state about any particular token.
type Inspector struct {
	threshold time.Duration
	nowTime   func() time.Time
}

// InspectorOption defines a function type to modify the Inspector instance.
type InspectorOption func(*Inspector)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InspectorOption {
	return func(i *Inspector) {
		i.nowTime = nowFunc
	}
}

// NewInspector creates an Inspector that treats tokens expiring within
// threshold as already in need of refresh.
func NewInspector(threshold time.Duration, options ...InspectorOption) *Inspector {
	inspector := &Inspector{
		threshold: threshold,
		nowTime:   NowTimeFunc,
	}
	for _, opt := range options {
		opt(inspector)
	}
	return inspector
}

// IsExpiring reports whether raw expires within the threshold. A token
// whose claims cannot be decoded, or that carries no expiry, counts as
// expiring: when we cannot trust what we read, we refresh rather than
// keep using it.
func (i *Inspector) IsExpiring(raw string) bool {
	claims, ok := Decode(raw)
	if !ok || claims.ExpiresAt.IsZero() {
		return true
	}
	return !claims.ExpiresAt.After(i.nowTime().Add(i.threshold))
}

// Threshold returns the configured expiry threshold.
func (i *Inspector) Threshold() time.Duration {
	return i.threshold
}
