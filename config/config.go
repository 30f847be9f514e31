package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// details on available environment variables:
//   - api.go: backend API configuration
//   - storage.go: client state storage configuration
//   - tracker.go: order status polling configuration
//   - report.go: admin report configuration
type AppConfig struct {
	// IsDev controls development-mode behavior (verbose logging, .env files).
	IsDev bool `env:"DEV" envDefault:"false"`

	// API is the backend endpoint configuration.
	API APIConfig `envPrefix:"API_"`

	// Storage is the client state store configuration.
	Storage StorageConfig `envPrefix:"STORAGE_"`

	// Tracker is the order status polling configuration.
	Tracker TrackerConfig `envPrefix:"TRACKER_"`

	// Report is the admin report configuration.
	Report ReportConfig `envPrefix:"REPORT_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Storage.Sanitize()
	c.Tracker.Sanitize()
	c.Report.Sanitize()
}
