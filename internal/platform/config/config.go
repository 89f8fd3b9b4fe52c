package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr       string
	SessionKey string
	SessionTTL time.Duration
	SeedFile   string
	// SecureCookies marks the session cookie Secure; enable behind HTTPS.
	SecureCookies bool
	Log           LogConfig
	Simulator     SimulatorConfig
	RateLimit     RateLimitConfig
	Redis         RedisConfig
}

// LogConfig selects slog level and handler.
type LogConfig struct {
	Level  string
	Format string
}

// SimulatorConfig tunes the fake backend.
type SimulatorConfig struct {
	SubmitDelay time.Duration
	ActionDelay time.Duration
	FailureRate float64
}

// RateLimitConfig bounds mutating requests per client IP.
type RateLimitConfig struct {
	RPS    float64
	Burst  int
	MaxIPs int
}

// RedisConfig configures the optional shared session store. An empty URL keeps
// sessions in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const devSessionKey = "dev-session-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var err error
	cfg := Server{
		Addr:       envOr("CIVREG_ADDR", ":8080"),
		SessionKey: envOr("CIVREG_SESSION_KEY", devSessionKey),
		SeedFile:   os.Getenv("CIVREG_SEED_FILE"),
		Log: LogConfig{
			Level:  envOr("CIVREG_LOG_LEVEL", "info"),
			Format: envOr("CIVREG_LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
	}

	if cfg.SecureCookies, err = boolEnv("CIVREG_SECURE_COOKIES", false); err != nil {
		return Server{}, err
	}
	if cfg.SessionTTL, err = durationEnv("CIVREG_SESSION_TTL", 30*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.Simulator.SubmitDelay, err = durationEnv("CIVREG_SUBMIT_DELAY", 2*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Simulator.ActionDelay, err = durationEnv("CIVREG_ACTION_DELAY", 1500*time.Millisecond); err != nil {
		return Server{}, err
	}
	if cfg.Simulator.FailureRate, err = floatEnv("CIVREG_FAILURE_RATE", 0); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.RPS, err = floatEnv("CIVREG_RATE_LIMIT_RPS", 10); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Burst, err = intEnv("CIVREG_RATE_LIMIT_BURST", 20); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.MaxIPs, err = intEnv("CIVREG_RATE_LIMIT_MAX_IPS", 10000); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = intEnv("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = intEnv("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = durationEnv("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: address is required")
	}
	if c.SessionKey == "" {
		return fmt.Errorf("config: session key is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session TTL must be positive")
	}
	if c.Simulator.FailureRate < 0 || c.Simulator.FailureRate > 1 {
		return fmt.Errorf("config: failure rate must be within [0,1], got %v", c.Simulator.FailureRate)
	}
	if c.Simulator.SubmitDelay < 0 || c.Simulator.ActionDelay < 0 {
		return fmt.Errorf("config: simulator delays cannot be negative")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("config: rate limit values cannot be negative")
	}
	return nil
}

// UsesDevSessionKey reports whether the built-in development key is in use.
func (c Server) UsesDevSessionKey() bool {
	return c.SessionKey == devSessionKey
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
