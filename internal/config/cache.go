package config

import "time"

// CacheConfig defines settings for the response cache middleware on the
// read-only ticket routes.  When Enabled is false or no Redis client is
// configured, caching is disabled.  TTL bounds the lifetime of an entry and
// MaxBodyBytes caps how much of a response is stored.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED" env-default:"false"`
	TTL          time.Duration `env:"CACHE_TTL" env-default:"30s"`
	Prefix       string        `env:"CACHE_PREFIX" env-default:"cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" env-default:"1048576"`
}

func (c *CacheConfig) normalize() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
}
