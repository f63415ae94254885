package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetCredentialMode() string
	GetAPIToken() string
	GetHTTPTimeout() time.Duration
	GetLoginUsername() string
	GetLoginPassword() string
}

type mainConfig struct {
	EnvVars
	API
}

func New() Config {
	return mainConfig{}
}
