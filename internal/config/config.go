package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName           = "Zefast"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultShutdownDelay     = 10 * time.Second
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultSessionTTL        = 24 * time.Hour
	defaultWizardTTL         = 30 * time.Minute
	defaultCatalogCacheTTL   = 5 * time.Minute
	defaultMobcashTimeout    = 15 * time.Second
	defaultOTPResendCooldown = 60 * time.Second
	defaultLoginMaxPerMinute = 5
	devSessionSecret         = "zefast-dev-session-secret"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisURL          string
	MobcashBaseURL    string
	MobcashTimeout    time.Duration
	SessionSecret     string
	SessionTTL        time.Duration
	CookieSecure      bool
	WizardTTL         time.Duration
	CatalogCacheTTL   time.Duration
	IdempotencyTTL    time.Duration
	OTPResendCooldown time.Duration
	LoginMaxPerMinute int
	ShutdownPeriod    time.Duration
}

// Load reads a .env file when present, then the environment, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary key lookup, which keeps tests off the process env.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		AppName:        get("APP_NAME", defaultAppName),
		AppEnv:         get("APP_ENV", defaultAppEnv),
		Port:           get("PORT", defaultPort),
		LogLevel:       strings.ToLower(get("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    get("DATABASE_URL", ""),
		RedisURL:       get("REDIS_URL", ""),
		MobcashBaseURL: strings.TrimRight(get("MOBCASH_BASE_URL", ""), "/"),
		SessionSecret:  get("SESSION_SECRET", ""),
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"MOBCASH_TIMEOUT", defaultMobcashTimeout, &cfg.MobcashTimeout},
		{"SESSION_TTL", defaultSessionTTL, &cfg.SessionTTL},
		{"WIZARD_TTL", defaultWizardTTL, &cfg.WizardTTL},
		{"CATALOG_CACHE_TTL", defaultCatalogCacheTTL, &cfg.CatalogCacheTTL},
		{"IDEMPOTENCY_TTL", defaultIdempotencyTTL, &cfg.IdempotencyTTL},
		{"OTP_RESEND_COOLDOWN", defaultOTPResendCooldown, &cfg.OTPResendCooldown},
		{"SHUTDOWN_TIMEOUT", defaultShutdownDelay, &cfg.ShutdownPeriod},
	}
	for _, d := range durations {
		*d.dst = d.fallback
		raw := get(d.key, "")
		if raw == "" {
			continue
		}
		parsed, err := ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	cfg.LoginMaxPerMinute = defaultLoginMaxPerMinute
	if v := get("LOGIN_MAX_PER_MINUTE", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_MAX_PER_MINUTE: %w", err)
		}
		cfg.LoginMaxPerMinute = n
	}

	if v := get("COOKIE_SECURE", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	} else {
		cfg.CookieSecure = !cfg.IsDev()
	}

	if cfg.SessionSecret == "" && cfg.IsDev() {
		cfg.SessionSecret = devSessionSecret
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c Config) Validate() error {
	if c.MobcashBaseURL == "" {
		return fmt.Errorf("MOBCASH_BASE_URL must be set")
	}
	if !strings.HasPrefix(c.MobcashBaseURL, "http://") && !strings.HasPrefix(c.MobcashBaseURL, "https://") {
		return fmt.Errorf("MOBCASH_BASE_URL must be an http(s) url")
	}
	if c.IsDev() {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// IsDev reports whether the service runs in a local/dev environment where
// Postgres and Redis may be replaced by in-memory stores.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// ParseDuration accepts Go durations ("90s", "5m") or a bare number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}
