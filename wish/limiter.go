package wish

import "time"

// Limiter enforces the hourly creation quota. The policy is a fixed window
// with reset on expiry, not a leaky bucket: the counter drops to zero only
// when more than an hour has passed since the window opened.
type Limiter struct {
	max         int
	count       int
	windowStart time.Time
}

// NewLimiter returns a limiter permitting max requests per hour.
func NewLimiter(max int) *Limiter {
	return &Limiter{max: max}
}

func (l *Limiter) expired(now time.Time) bool {
	return l.count == 0 || now.Sub(l.windowStart) > time.Hour
}

// CanMakeRequest reports whether a request would be accepted at now. It is
// a pure predicate and never mutates the window.
func (l *Limiter) CanMakeRequest(now time.Time) bool {
	if l.expired(now) {
		return true
	}
	return l.count < l.max
}

// RecordRequest counts an accepted request, opening a fresh window when the
// previous one has expired. Call only after an accepted create.
func (l *Limiter) RecordRequest(now time.Time) {
	if l.expired(now) {
		l.count = 0
		l.windowStart = now
	}
	l.count++
}

// RetryAfter returns how long until the current window expires.
func (l *Limiter) RetryAfter(now time.Time) time.Duration {
	if l.expired(now) {
		return 0
	}
	d := l.windowStart.Add(time.Hour).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Limit returns the configured maximum requests per hour.
func (l *Limiter) Limit() int { return l.max }
