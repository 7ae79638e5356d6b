// File path: internal/api/ratelimit_test.go
package api

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.allow("ws"); !ok {
			t.Fatalf("request %d unexpectedly limited", i)
		}
	}
	ok, wait := limiter.allow("ws")
	if ok {
		t.Fatal("third request must be limited")
	}
	if wait <= 0 || wait > time.Minute {
		t.Fatalf("unexpected wait: %v", wait)
	}

	if ok, _ := limiter.allow("other"); !ok {
		t.Fatal("keys must be limited independently")
	}

	now = now.Add(time.Minute)
	if ok, _ := limiter.allow("ws"); !ok {
		t.Fatal("window must reset after a minute")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.allow("ws"); !ok {
			t.Fatal("zero limit must disable limiting")
		}
	}
	var nilLimiter *rateLimiter
	if ok, _ := nilLimiter.allow("ws"); !ok {
		t.Fatal("nil limiter must allow")
	}
}
