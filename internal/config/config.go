// Package config reads the BOOST_* environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/session"
)

type Config struct {
	APIBaseURL string        `env:"BOOST_API_BASE_URL,default=http://10.0.2.2:8000/"`
	APITimeout time.Duration `env:"BOOST_API_TIMEOUT,default=30s"`

	SessionBackend string `env:"BOOST_SESSION_BACKEND,default=sqlite"`
	SessionPath    string `env:"BOOST_SESSION_PATH,default=./data/session.db"`
	RedisAddr      string `env:"BOOST_REDIS_ADDR"`
	RedisKey       string `env:"BOOST_REDIS_KEY,default=gamingboost:auth_token"`

	LogLevel string `env:"BOOST_LOG_LEVEL,default=info"`

	// Frontend
	HTTPAddr      string `env:"BOOST_HTTP_ADDR,default=:8090"`
	CORSOrigins   string `env:"BOOST_CORS_ORIGINS,default=*"`
	Currency      string `env:"BOOST_CURRENCY,default=MXN"`
	DeepLinkCache int    `env:"BOOST_DEEPLINK_CACHE,default=64"`

	// repeats of the same payment-result inside this window are dropped
	DeepLinkWindow time.Duration `env:"BOOST_DEEPLINK_WINDOW,default=2s"`
}

// Load reads envFile when it exists and then decodes the environment.
// Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env (%s): %w", envFile, err)
		}
	}
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SessionBackend {
	case session.BackendSQLite, session.BackendMemory:
	case session.BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("BOOST_REDIS_ADDR is required with the redis session backend")
		}
	default:
		return fmt.Errorf("BOOST_SESSION_BACKEND: unknown backend %q", c.SessionBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("BOOST_LOG_LEVEL: %w", err)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("BOOST_API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	return nil
}

// Session maps the config onto the session store options.
func (c Config) Session() session.Options {
	return session.Options{
		Backend:    c.SessionBackend,
		SQLitePath: c.SessionPath,
		RedisAddr:  c.RedisAddr,
		RedisKey:   c.RedisKey,
	}
}

// Origins splits BOOST_CORS_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Log writes the effective configuration once at startup.
func (c Config) Log(l zerolog.Logger) {
	l.Info().
		Str("api", c.APIBaseURL).
		Dur("timeout", c.APITimeout).
		Str("session", c.SessionBackend).
		Str("session_path", c.SessionPath).
		Str("redis", c.RedisAddr).
		Str("http", c.HTTPAddr).
		Str("currency", c.Currency).
		Msg("config loaded")
}
