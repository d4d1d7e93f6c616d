package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	signaturePrefix = "sha256="

	limiterCacheSize = 1000
	limiterIdleTTL   = 5 * time.Minute
)

var (
	ErrBadSignature = errors.New("webhook signature rejected")
	ErrIPNotAllowed = errors.New("source ip not allowed")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// SecurityConfig guards the outcome webhook.
type SecurityConfig struct {
	Secret string
	// AllowedIPs holds addresses or CIDR ranges. Empty admits everyone.
	AllowedIPs      []string
	RateLimitPerMin int
}

// SecurityValidator checks origin, rate and signature of webhook calls.
type SecurityValidator struct {
	secret   []byte
	allowed  []netip.Prefix
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewSecurityValidator parses the allowlist once; unparsable entries are
// dropped. RateLimitPerMin <= 0 disables limiting.
func NewSecurityValidator(cfg SecurityConfig) *SecurityValidator {
	v := &SecurityValidator{
		secret:   []byte(cfg.Secret),
		limiters: expirable.NewLRU[string, *rate.Limiter](limiterCacheSize, nil, limiterIdleTTL),
		limit:    rate.Inf,
		burst:    1,
	}
	for _, entry := range cfg.AllowedIPs {
		if p, ok := parseAllowed(entry); ok {
			v.allowed = append(v.allowed, p)
		}
	}
	if cfg.RateLimitPerMin > 0 {
		v.limit = rate.Limit(float64(cfg.RateLimitPerMin) / 60)
		v.burst = max(cfg.RateLimitPerMin/10, 1)
	}
	return v
}

func parseAllowed(entry string) (netip.Prefix, bool) {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		p, err := netip.ParsePrefix(entry)
		return p.Masked(), err == nil
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, false
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), true
}

// ValidateSignature checks a "sha256=<hex>" HMAC of the raw body.
func (v *SecurityValidator) ValidateSignature(payload []byte, signature string) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("%w: secret not configured", ErrBadSignature)
	}
	sum, ok := strings.CutPrefix(signature, signaturePrefix)
	if !ok {
		return fmt.Errorf("%w: missing %q prefix", ErrBadSignature, signaturePrefix)
	}
	got, err := hex.DecodeString(sum)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if !hmac.Equal(got, Sign(string(v.secret), payload)) {
		return ErrBadSignature
	}
	return nil
}

// Sign returns the raw HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}

// ValidateIPAddress admits the request when its client IP falls in the
// allowlist.
func (v *SecurityValidator) ValidateIPAddress(r *http.Request) error {
	if len(v.allowed) == 0 {
		return nil
	}
	ip := extractIP(r)
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrIPNotAllowed, ip)
	}
	addr = addr.Unmap()
	for _, p := range v.allowed {
		if p.Contains(addr) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckRateLimit takes one token from source's bucket. Buckets idle for
// limiterIdleTTL are forgotten.
func (v *SecurityValidator) CheckRateLimit(source string) error {
	l, ok := v.limiters.Get(source)
	if !ok {
		l = rate.NewLimiter(v.limit, v.burst)
		v.limiters.Add(source, l)
	}
	if !l.Allow() {
		return fmt.Errorf("%w: %s", ErrRateLimited, source)
	}
	return nil
}

// extractIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the socket address.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
