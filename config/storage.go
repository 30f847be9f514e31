package config

import (
	"fmt"
	"strings"
)

// StorageBackend selects where client state (token, cart, favorites) lives.
type StorageBackend string

const (
	// StorageBackendFile keeps state in per-key files under StateDir.
	// This is the default, single-device mode.
	StorageBackendFile StorageBackend = "file"
	// StorageBackendRedis keeps state in Redis, for shared kiosk
	// deployments where several terminals present the same device state.
	StorageBackendRedis StorageBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, redis)", v)
	}
}

// RedisConfig configures the redis state store backend.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
	Prefix   string `env:"PREFIX"   envDefault:"cafetec:"`
}

// StorageConfig groups client state storage configuration.
type StorageConfig struct {
	// Backend determines which state store adapter to use.
	Backend StorageBackend `env:"BACKEND" envDefault:"file"`

	// StateDir is the directory holding per-key state files when
	// Backend is file. Empty means a cafetec directory under the
	// user config dir.
	StateDir string `env:"STATE_DIR"`

	// Redis configuration (used when Backend is redis).
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// Sanitize normalizes the storage configuration.
func (c *StorageConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StorageBackendFile
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "cafetec:"
	}
}
