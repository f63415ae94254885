package config

import (
	"strconv"
	"time"
)

const (
	apiBaseURLVar     = "API_BASE_URL"
	credentialModeVar = "CREDENTIAL_MODE"
	apiTokenVar       = "API_TOKEN"
	httpTimeoutVar    = "HTTP_TIMEOUT_SECONDS"
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the cooperative API endpoint the console talks to.
// Fixed for the process lifetime.
func (API) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8000/api")
}

// GetCredentialMode selects how session credentials are carried: "cookie"
// (production default), "token", or "none".
func (API) GetCredentialMode() string {
	return GetEnv(credentialModeVar, "cookie")
}

// GetAPIToken seeds the bearer token when the credential mode is "token".
func (API) GetAPIToken() string {
	return GetEnv(apiTokenVar, "")
}

func (API) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(httpTimeoutVar, "15"))
	if err != nil || seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

// GetLoginUsername and GetLoginPassword supply credentials for the demo login
// performed by cmd/console when no session can be recovered.
func (API) GetLoginUsername() string {
	return GetEnv("CONSOLE_USERNAME", "")
}

func (API) GetLoginPassword() string {
	return GetEnv("CONSOLE_PASSWORD", "")
}
