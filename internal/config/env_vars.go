package config

import (
	"os"
	"strconv"
	"time"
)

const (
	appNameVar         = "APP_NAME"
	apiBaseURLVar      = "API_BASE_URL"
	requestTimeoutVar  = "REQUEST_TIMEOUT_SECONDS"
	credentialsFileVar = "CREDENTIALS_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "SkillWave")
}

// GetAPIBaseURL returns the base URL of the SkillWave REST API
// (e.g., "https://api.skillwave.yourdomain.com")
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8080")
}

func (EnvVars) GetRequestTimeout() time.Duration {
	return GetEnvDuration(requestTimeoutVar, 15*time.Second)
}

func (EnvVars) GetCredentialsFile() string {
	return GetEnv(credentialsFileVar, "./data/credentials.json")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvDuration reads a duration expressed as whole seconds.
func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
