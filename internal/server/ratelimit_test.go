package server

import (
	"net/http"
	"testing"
	"time"
)

func TestCredentialEndpointsAreRateLimited(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{"email": "burst@example.com", "password": "wrong"}
	var last int
	for i := 0; i < credentialRateLimit.Burst+1; i++ {
		rec := performRequest(t, env.router, http.MethodPost, "/api/login", "", payload)
		last = rec.Code
		if i < credentialRateLimit.Burst && rec.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d limited before burst exhausted", i)
		}
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}

func TestRateLimitDoesNotApplyToAuthedRoutes(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "steady@example.com")
	token := env.userToken(t, user)

	for i := 0; i < credentialRateLimit.Burst*2; i++ {
		rec := performRequest(t, env.router, http.MethodGet, "/api/profile", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestIPLimiterIsolatesKeys(t *testing.T) {
	limiter := newIPLimiter(rateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})

	if !limiter.limiterFor("10.0.0.1").Allow() {
		t.Fatalf("first request for a key should pass")
	}
	if limiter.limiterFor("10.0.0.1").Allow() {
		t.Fatalf("second request for the same key should be limited")
	}
	if !limiter.limiterFor("10.0.0.2").Allow() {
		t.Fatalf("a different key must have its own bucket")
	}
}
