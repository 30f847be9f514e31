package config

import "time"

const (
	minRequestTimeout = time.Second
	minRestoreTimeout = time.Second

	defaultRequestTimeout = 15 * time.Second
	defaultRestoreTimeout = 10 * time.Second
)

// APIConfig describes how to reach the CaféTec backend.
type APIConfig struct {
	// BaseURL is the backend API root, without a trailing slash.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000/api"`

	// RequestTimeout bounds every individual API request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// RestoreTimeout bounds the silent profile fetch at boot so that a
	// hanging backend cannot keep route guards in their checking state
	// forever.
	RestoreTimeout time.Duration `env:"RESTORE_TIMEOUT" envDefault:"10s"`
}

// Sanitize clamps timeouts to sane floors.
func (c *APIConfig) Sanitize() {
	if c.RequestTimeout < minRequestTimeout {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RestoreTimeout < minRestoreTimeout {
		c.RestoreTimeout = defaultRestoreTimeout
	}
	for len(c.BaseURL) > 0 && c.BaseURL[len(c.BaseURL)-1] == '/' {
		c.BaseURL = c.BaseURL[:len(c.BaseURL)-1]
	}
}
