package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestCSRFGenerator(t *testing.T) {
	g := NewCSRFGenerator("secret")

	token, err := g.Token("session-1")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if !g.Valid("session-1", token) {
		t.Error("token should be valid for its own session")
	}
	if g.Valid("session-2", token) {
		t.Error("token should not be valid for another session")
	}
	if g.Valid("session-1", "") {
		t.Error("empty token should be invalid")
	}
	if _, err := g.Token(""); err == nil {
		t.Error("expected error for empty session ID")
	}
	if NewCSRFGenerator("other").Valid("session-1", token) {
		t.Error("token should not validate under another secret")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Error("hash should not equal the password")
	}
	if !CheckPassword("correct horse", hash) {
		t.Error("CheckPassword() should accept the right password")
	}
	if CheckPassword("battery staple", hash) {
		t.Error("CheckPassword() should reject a wrong password")
	}
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("jwt-secret", time.Hour)

	token, session, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parsed, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parsed.ID != session.ID || parsed.UserID != 42 {
		t.Errorf("Parse() = %+v, want id %s user 42", parsed, session.ID)
	}

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := NewTokenIssuer("other", time.Hour).Parse(token); err == nil {
			t.Error("expected error for token signed with another secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenIssuer("jwt-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := late.Parse(token); err == nil {
			t.Error("expected error for expired token")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := issuer.Parse("not-a-token"); err == nil {
			t.Error("expected error for garbage token")
		}
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request in the window should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Error("bucket should refill after the window")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote address", nil, false, "10.0.0.1"},
		{"forwarded header ignored by default", map[string]string{"X-Forwarded-For": "203.0.113.9"}, false, "10.0.0.1"},
		{"real ip ignored by default", map[string]string{"X-Real-IP": "203.0.113.7"}, false, "10.0.0.1"},
		{"forwarded header behind proxy", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, true, "203.0.113.9"},
		{"real ip behind proxy", map[string]string{"X-Real-IP": "203.0.113.7"}, true, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "10.0.0.1:5555"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	for i, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		r.Header.Set("X-Forwarded-For", xff)
		allowed := rl.Allow(rl.ClientIP(r))
		if want := i == 0; allowed != want {
			t.Errorf("request %d allowed = %v, want %v", i, allowed, want)
		}
	}

	rl.TrustProxyHeaders(true)
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.3")
	if !rl.Allow(rl.ClientIP(r)) {
		t.Error("behind a trusted proxy each forwarded client gets its own budget")
	}
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if IsSecureRequest(r) {
		t.Error("plain request should not be secure")
	}
	r.Header.Set("X-Forwarded-Proto", "https")
	if !IsSecureRequest(r) {
		t.Error("forwarded https should be secure")
	}
}
