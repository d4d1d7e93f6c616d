package http

import (
	"encoding/hex"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestValidateSignature(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "s3cret"})
	body := []byte(`{"invite_id":"ev-1","status":"accepted"}`)
	good := signaturePrefix + hex.EncodeToString(Sign("s3cret", body))

	tests := []struct {
		name    string
		sig     string
		wantErr bool
	}{
		{"valid", good, false},
		{"missing prefix", hex.EncodeToString(Sign("s3cret", body)), true},
		{"bad hex", signaturePrefix + "zz", true},
		{"wrong secret", signaturePrefix + hex.EncodeToString(Sign("other", body)), true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSignature(body, tt.sig)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSignature() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("no secret configured", func(t *testing.T) {
		if err := NewSecurityValidator(SecurityConfig{}).ValidateSignature(body, good); err == nil {
			t.Error("expected error without a secret")
		}
	})
}

func TestValidateIPAddress(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{AllowedIPs: []string{"203.0.113.7", "10.0.0.0/8", "bad/cidr"}})

	tests := []struct {
		name    string
		remote  string
		xff     string
		realIP  string
		wantErr bool
	}{
		{"exact", "203.0.113.7:5555", "", "", false},
		{"cidr", "10.1.2.3:80", "", "", false},
		{"forwarded first hop", "127.0.0.1:1", "10.9.9.9, 192.168.0.1", "", false},
		{"real ip header", "127.0.0.1:1", "", "203.0.113.7", false},
		{"outside", "192.168.1.1:80", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			err := v.ValidateIPAddress(r)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIPAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("empty allowlist", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		if err := NewSecurityValidator(SecurityConfig{}).ValidateIPAddress(r); err != nil {
			t.Errorf("ValidateIPAddress() error = %v", err)
		}
	})
}

func TestCheckRateLimit(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 30})
	// burst = 30/10
	for i := 0; i < 3; i++ {
		if err := v.CheckRateLimit("a"); err != nil {
			t.Fatalf("request %d limited: %v", i, err)
		}
	}
	if err := v.CheckRateLimit("a"); err == nil {
		t.Error("expected burst to be exhausted")
	}
	if err := v.CheckRateLimit("b"); err != nil {
		t.Errorf("independent source limited: %v", err)
	}

	t.Run("small limits still admit one", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 5})
		if err := v.CheckRateLimit("x"); err != nil {
			t.Errorf("CheckRateLimit() error = %v", err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{})
		for i := 0; i < 100; i++ {
			if err := v.CheckRateLimit("x"); err != nil {
				t.Fatalf("CheckRateLimit() error = %v", err)
			}
		}
	})
}

func TestSecurityErrors(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "k", AllowedIPs: []string{"::ffff:198.51.100.4", "2001:db8::/32"}, RateLimitPerMin: 10})

	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "198.51.100.4:1"
	if err := v.ValidateIPAddress(r); err != nil {
		t.Errorf("mapped v4 entry: %v", err)
	}
	r.RemoteAddr = "[2001:db8::1]:443"
	if err := v.ValidateIPAddress(r); err != nil {
		t.Errorf("v6 cidr: %v", err)
	}
	r.RemoteAddr = "not-an-ip"
	if err := v.ValidateIPAddress(r); !errors.Is(err, ErrIPNotAllowed) {
		t.Errorf("garbage address error = %v, want ErrIPNotAllowed", err)
	}

	if err := v.ValidateSignature([]byte("x"), "sha256=zz"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("bad hex error = %v, want ErrBadSignature", err)
	}

	_ = v.CheckRateLimit("s")
	if err := v.CheckRateLimit("s"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second request error = %v, want ErrRateLimited", err)
	}
}
