package config

import "time"

// RateLimitConfig configures the fixed-window limiter mounted on /api.
// Max requests are admitted per client address in every Window.
type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Max     int           `env:"RATE_LIMIT_MAX" env-default:"100"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"15m"`
	Prefix  string        `env:"RATE_LIMIT_PREFIX" env-default:"rl"`
	Debug   bool          `env:"RATE_LIMIT_DEBUG" env-default:"false"`
}

func (c *RateLimitConfig) normalize() {
	if c.Max < 1 {
		c.Max = 1
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "rl"
	}
}
