package utils

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	// Первые три запроса проходят
	for i := 0; i < 3; i++ {
		if !limiter.Allow("client") {
			t.Fatalf("request %d must be allowed", i+1)
		}
	}

	// Четвертый отклоняется
	if limiter.Allow("client") {
		t.Errorf("request over limit must be rejected")
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	// Лимиты считаются независимо по ключам
	if !limiter.Allow("first") {
		t.Errorf("first key must be allowed")
	}
	if !limiter.Allow("second") {
		t.Errorf("second key must be allowed")
	}
	if limiter.Allow("first") {
		t.Errorf("first key over limit must be rejected")
	}
}

func TestRateLimiterReset(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	limiter.Allow("client")
	if limiter.Allow("client") {
		t.Fatalf("over limit must be rejected")
	}

	// После сброса лимит считается заново
	limiter.Reset("client")
	if !limiter.Allow("client") {
		t.Errorf("request after reset must be allowed")
	}
}

func TestRateLimiterGetRemaining(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	if got := limiter.GetRemaining("client"); got != 5 {
		t.Errorf("remaining before requests: got %d want %d", got, 5)
	}

	limiter.Allow("client")
	limiter.Allow("client")

	if got := limiter.GetRemaining("client"); got != 3 {
		t.Errorf("remaining after two requests: got %d want %d", got, 3)
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)

	limiter.Allow("client")
	if limiter.Allow("client") {
		t.Fatalf("over limit must be rejected")
	}

	// После истечения окна запросы снова проходят
	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("client") {
		t.Errorf("request after window expiry must be allowed")
	}
}
