package config

import "time"

const (
	refreshThresholdVar     = "REFRESH_THRESHOLD_SECONDS"
	refreshCheckIntervalVar = "REFRESH_CHECK_INTERVAL_SECONDS"
)

type Auth struct{}

var _ AuthConfig = Auth{}

// GetRefreshThreshold returns how close to expiry an access token may get
// before a silent refresh is attempted.
func (Auth) GetRefreshThreshold() time.Duration {
	return GetEnvDuration(refreshThresholdVar, 5*time.Minute)
}

// GetRefreshCheckInterval returns how often the session manager polls the
// access token for impending expiry.
func (Auth) GetRefreshCheckInterval() time.Duration {
	return GetEnvDuration(refreshCheckIntervalVar, 5*time.Minute)
}
