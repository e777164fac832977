package config

import "time"

type Config interface {
	EnvConfig
	AuthConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetCredentialsFile() string
	GetEnv() string
}

type AuthConfig interface {
	GetRefreshThreshold() time.Duration
	GetRefreshCheckInterval() time.Duration
}

type OAuthConfig interface {
	GetOAuthLoginURL(provider string) string
	GetOAuthRegistrationURL(provider string) string
}

type mainConfig struct {
	EnvVars
	Auth
	OAuth
}

func New() Config {
	return mainConfig{}
}
