package contactclient

import (
	"net/http"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DefaultBaseURL is the standalone backend used during local development.
	DefaultBaseURL = "http://localhost:8001"

	productionPath  = "/api/send-email"
	developmentPath = "/send-email"

	defaultTimeout = 30 * time.Second
)

// Config describes where the form submits to.
type Config struct {
	// Env selects endpoint resolution; anything other than production
	// (or prod) is treated as development.
	Env string
	// BaseURL is the backend used outside production. Empty means DefaultBaseURL.
	BaseURL string
	// Origin is the origin the form is served from. Relative endpoints, which
	// production resolves to, are joined onto it.
	Origin string
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// IsProduction reports whether cfg targets the same-origin production API.
func (c Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == EnvProduction || env == "prod"
}

func (c Config) environmentLabel() string {
	if c.IsProduction() {
		return "production"
	}
	return "local"
}

// ResolveEndpoint returns the send-email endpoint: the same-origin path
// "/api/send-email" in production, otherwise baseURL (or DefaultBaseURL)
// followed by "/send-email".
func ResolveEndpoint(env, baseURL string) string {
	if (Config{Env: env}).IsProduction() {
		return productionPath
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + developmentPath
}

// URL is the absolute address Submit posts to.
func (c Config) URL() string {
	endpoint := ResolveEndpoint(c.Env, c.BaseURL)
	if strings.HasPrefix(endpoint, "/") {
		return strings.TrimRight(c.Origin, "/") + endpoint
	}
	return endpoint
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}
