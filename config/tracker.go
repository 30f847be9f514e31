package config

import "time"

const (
	// minPollInterval keeps a misconfigured tracker from hammering the
	// status endpoint.
	minPollInterval = time.Second

	defaultPollInterval = 15 * time.Second
)

// TrackerConfig configures order status polling.
type TrackerConfig struct {
	// PollInterval is how often the tracker re-fetches order status while
	// an order is in a non-terminal state.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"15s"`
}

// Sanitize clamps the poll interval to a sane floor.
func (c *TrackerConfig) Sanitize() {
	if c.PollInterval < minPollInterval {
		c.PollInterval = defaultPollInterval
	}
}
