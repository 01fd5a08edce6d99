package config

import (
	"strings"
	"testing"
)

func TestValidateRejectsBadSecrets(t *testing.T) {
	base := Config{JWTSecret: "a-perfectly-fine-secret", TokenTTLMinutes: 60}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		mutate func(*Config)
		want   string
	}{
		{func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{func(c *Config) { c.JWTSecret = "   " }, "JWT_SECRET is required"},
		{func(c *Config) { c.JWTSecret = "your_jwt_secret_key" }, "insecure default"},
		{func(c *Config) { c.JWTSecret = "short" }, "too short"},
		{func(c *Config) { c.TokenTTLMinutes = 0 }, "TOKEN_TTL_MINUTES"},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("expected error containing %q, got %v", tc.want, err)
		}
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_EMPTY", "")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "not-a-number")
	t.Setenv("TEST_CSV", " a , b ,, c ")

	if got := getEnv("TEST_STR", "fallback"); got != "value" {
		t.Fatalf("getEnv set: got %q", got)
	}
	if got := getEnv("TEST_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv empty: got %q", got)
	}
	if got := getEnv("TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("getEnv missing: got %q", got)
	}

	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Fatalf("getEnvInt set: got %d", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("getEnvInt invalid: got %d", got)
	}

	csv := getEnvCSV("TEST_CSV", []string{"x"})
	if len(csv) != 3 || csv[0] != "a" || csv[1] != "b" || csv[2] != "c" {
		t.Fatalf("getEnvCSV: got %v", csv)
	}
	if got := getEnvCSV("TEST_MISSING", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("getEnvCSV fallback: got %v", got)
	}
}
