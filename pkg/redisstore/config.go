package redisstore

import "time"

// Config describes the Redis connection and store behavior.
type Config struct {
	// ConnectionURL should be in the format "redis://:password@localhost:6379/0"
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// KeyPrefix namespaces all session keys
	KeyPrefix string `env:"REDIS_SESSION_KEY_PREFIX" envDefault:"session:"`

	// HealthcheckInterval for readiness probing (0 disables the loop)
	HealthcheckInterval time.Duration `env:"REDIS_HEALTHCHECK_INTERVAL" envDefault:"15s"`
}

// DefaultConfig returns default store configuration.
func DefaultConfig() Config {
	return Config{
		ConnectionURL:       "redis://localhost:6379/0",
		RetryAttempts:       3,
		RetryInterval:       5 * time.Second,
		ConnectTimeout:      30 * time.Second,
		KeyPrefix:           "session:",
		HealthcheckInterval: 15 * time.Second,
	}
}
