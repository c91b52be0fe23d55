package server

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the server configuration, read from FIGLAYOUT_* variables.
type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	RedisURL       string        `envconfig:"REDIS_URL"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	SettleTimeout  time.Duration `envconfig:"SETTLE_TIMEOUT" default:"10s"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"localhost:*"`
	MaxBodyBytes   int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("figlayout", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into host patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
