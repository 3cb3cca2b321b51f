package core

import (
	"errors"
	"fmt"
	"time"
)

// Validation failures surfaced by the lifecycle manager.
var (
	ErrEmptyPrompt  = errors.New("prompt must not be empty")
	ErrInvalidKind  = errors.New("unsupported wish kind")
	ErrWishNotFound = errors.New("wish not found")
)

// RateLimitError reports an exhausted hourly request quota. The pending
// wish is never created.
type RateLimitError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("hourly request limit of %d reached, retry in %s", e.Limit, e.RetryAfter.Round(time.Second))
}
