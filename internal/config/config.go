package config // package config loads application configuration from the environment

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; defaults apply when the variable is unset so a
// developer can start the API against a local MySQL without any setup.
type Config struct {
	Env         string `env:"APP_ENV" env-default:"development"` // "production" selects strict CORS and hides error detail
	Port        string `env:"PORT,APP_PORT" env-default:"3001"`  // API listen port
	StaticPort  string `env:"STATIC_PORT" env-default:"8080"`    // standalone static server port
	StaticDir   string `env:"STATIC_DIR" env-default:"public"`   // built frontend bundle
	BodyLimit   string `env:"BODY_LIMIT" env-default:"1M"`       // request body cap, echo size notation
	PhoneRegion string `env:"PHONE_REGION" env-default:"US"`     // default region for numbers without a +prefix
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	AuthSecret  string `env:"AUTH_JWT_SECRET"` // empty disables the supervisor gate
	AMQPURL     string `env:"AMQP_URL"`        // empty disables ticket events

	// TrustedProxies lists the CIDRs or addresses of reverse proxies whose
	// X-Forwarded-For is believed.  Empty means the peer address is the
	// client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`

	DB        DBConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// DBConfig describes the MySQL connection backing the ticket store.
type DBConfig struct {
	User            string        `env:"DB_USER" env-default:"root"`
	Pass            string        `env:"DB_PASS"`
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"3306"`
	Name            string        `env:"DB_NAME" env-default:"tickets"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// CORSConfig carries one origin allow-list per named environment.
type CORSConfig struct {
	ProductionOrigins  []string `env:"CORS_ORIGINS_PRODUCTION" env-separator:","`
	DevelopmentOrigins []string `env:"CORS_ORIGINS_DEVELOPMENT" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// .env is a developer convenience; a missing file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	cfg.RateLimit.normalize()
	cfg.Cache.normalize()
	if _, err := cfg.TrustedProxyNets(); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the named environment is "production".
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// AllowedOrigins returns the CORS allow-list for the current environment.
func (c Config) AllowedOrigins() []string {
	src := c.CORS.DevelopmentOrigins
	if c.IsProduction() {
		src = c.CORS.ProductionOrigins
	}
	out := make([]string, 0, len(src))
	for _, o := range src {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// TrustedProxyNets parses TrustedProxies.  A bare address is taken as a
// single-host network.
func (c Config) TrustedProxyNets() ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", p)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
