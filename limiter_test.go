package inkwell

import (
	"testing"
	"time"
)

func TestLoginLimiterAllow(t *testing.T) {
	limiter := NewLoginLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Error("fourth attempt should be blocked")
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)

	if !limiter.Allow("1.1.1.1") {
		t.Error("first IP should be allowed")
	}
	if !limiter.Allow("2.2.2.2") {
		t.Error("second IP should be allowed independently")
	}
	if limiter.Allow("1.1.1.1") {
		t.Error("first IP should now be blocked")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	limiter := NewLoginLimiter(1, 50*time.Millisecond)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first attempt should be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("second attempt should be blocked")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("1.2.3.4") {
		t.Error("attempt after window expiry should be allowed")
	}
}
