package wish

import (
	"testing"
	"time"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(3)

	for i := 0; i < 3; i++ {
		if !l.CanMakeRequest(now) {
			t.Fatalf("request %d should be allowed", i)
		}
		l.RecordRequest(now)
	}
	if l.CanMakeRequest(now) {
		t.Error("request past the limit should be rejected")
	}
}

func TestLimiterWindowResets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1)
	l.RecordRequest(now)

	// Exactly one hour later the window has not expired yet.
	if l.CanMakeRequest(now.Add(time.Hour)) {
		t.Error("window must last a full hour")
	}

	later := now.Add(time.Hour + time.Second)
	if !l.CanMakeRequest(later) {
		t.Fatal("expired window should allow requests again")
	}
	l.RecordRequest(later)
	if l.CanMakeRequest(later) {
		t.Error("fresh window starts counting from one, not zero")
	}
}

func TestLimiterCanMakeRequestIsPure(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1)

	for i := 0; i < 10; i++ {
		if !l.CanMakeRequest(now) {
			t.Fatal("repeated checks must not consume quota")
		}
	}
}

func TestLimiterRetryAfter(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1)

	if got := l.RetryAfter(now); got != 0 {
		t.Errorf("empty limiter should have zero retry, got %s", got)
	}

	l.RecordRequest(now)
	if got := l.RetryAfter(now.Add(20 * time.Minute)); got != 40*time.Minute {
		t.Errorf("expected 40m, got %s", got)
	}
}
