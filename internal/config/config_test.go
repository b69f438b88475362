package config

import (
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"MOBCASH_BASE_URL": "https://api.example.com/",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MobcashBaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.MobcashBaseURL)
	}
	if cfg.OTPResendCooldown != 60*time.Second {
		t.Fatalf("unexpected otp cooldown %s", cfg.OTPResendCooldown)
	}
	if cfg.SessionSecret == "" {
		t.Fatal("expected dev session secret")
	}
	if cfg.CookieSecure {
		t.Fatal("expected insecure cookies in development")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestFromLookupDurations(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"MOBCASH_BASE_URL": "http://localhost:9000",
		"SESSION_TTL":      "3600",
		"WIZARD_TTL":       "10m",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("expected 1h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.WizardTTL != 10*time.Minute {
		t.Fatalf("expected 10m wizard ttl, got %s", cfg.WizardTTL)
	}

	if _, err := FromLookup(lookupFrom(map[string]string{
		"MOBCASH_BASE_URL": "http://localhost:9000",
		"SESSION_TTL":      "forever",
	})); err == nil {
		t.Fatal("expected invalid duration error")
	}
}

func TestProductionRequiresBackingServices(t *testing.T) {
	env := map[string]string{
		"APP_ENV":          "production",
		"MOBCASH_BASE_URL": "https://api.example.com",
	}
	if _, err := FromLookup(lookupFrom(env)); err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}

	env["DATABASE_URL"] = "postgres://localhost/zefast"
	env["REDIS_URL"] = "redis://localhost:6379/0"
	env["SESSION_SECRET"] = "short"
	if _, err := FromLookup(lookupFrom(env)); err == nil {
		t.Fatal("expected short secret error")
	}

	env["SESSION_SECRET"] = "0123456789abcdef0123456789abcdef"
	cfg, err := FromLookup(lookupFrom(env))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies outside development")
	}
}

func TestMissingBaseURL(t *testing.T) {
	if _, err := FromLookup(lookupFrom(map[string]string{})); err == nil {
		t.Fatal("expected MOBCASH_BASE_URL error")
	}
}
