package core

import (
	"context"
	"time"
)

type (
	// WishKind classifies what a wish asks the generator for. Only image
	// wishes reach the remote generator; audio and text wishes are accepted
	// but produce synthetic metadata.
	WishKind string

	// WishStatus is the lifecycle state of a wish.
	WishStatus string
)

const (
	WishKindImage WishKind = "image"
	WishKindAudio WishKind = "audio"
	WishKindText  WishKind = "text"
)

const (
	StatusQueued     WishStatus = "queued"
	StatusProcessing WishStatus = "processing"
	StatusCompleted  WishStatus = "completed"
	StatusFailed     WishStatus = "failed"
)

// ValidKind reports whether k is one of the accepted wish kinds.
func ValidKind(k WishKind) bool {
	switch k {
	case WishKindImage, WishKindAudio, WishKindText:
		return true
	}
	return false
}

type (
	// Result describes the outcome of a completed wish. Image wishes carry a
	// URL and dimensions; audio and text wishes carry synthetic metadata
	// (duration, word count) instead.
	Result struct {
		URL             string    `json:"url,omitempty"`
		Width           int       `json:"width,omitempty"`
		Height          int       `json:"height,omitempty"`
		Seed            int64     `json:"seed,omitempty"`
		GeneratedAt     time.Time `json:"generatedAt,omitempty"`
		DurationSeconds int       `json:"durationSeconds,omitempty"`
		WordCount       int       `json:"wordCount,omitempty"`
	}

	// Wish is a single creation request and its outcome. The JSON shape is
	// the persisted record format and must stay compatible with previously
	// saved data.
	Wish struct {
		ID          int64      `json:"id"`
		UserID      string     `json:"-"` // Not persisted in the record; the store scopes by user.
		Prompt      string     `json:"prompt"`
		Kind        WishKind   `json:"type"`
		Status      WishStatus `json:"status"`
		Progress    int        `json:"progress"`
		CreatedAt   time.Time  `json:"createdAt"`
		CompletedAt *time.Time `json:"completedAt,omitempty"`
		Result      *Result    `json:"result,omitempty"`
		Error       string     `json:"error,omitempty"`
		Favorite    bool       `json:"favorite"`
		Downloads   int        `json:"downloads"`
	}

	// WishStore defines the persistence layer for a user's wish list. The
	// contract is best-effort and whole-list: the in-memory list is the
	// source of truth for the session, and the store is written after every
	// mutation.
	WishStore interface {
		// LoadWishes returns the stored wish list for a user, most recent
		// first. A missing user yields an empty list, not an error.
		LoadWishes(ctx context.Context, userID string) ([]*Wish, error)

		// SaveWishes replaces the stored wish list for a user.
		SaveWishes(ctx context.Context, userID string, wishes []*Wish) error
	}
)

// Terminal reports whether the wish has reached a final state.
func (w *Wish) Terminal() bool {
	return w.Status == StatusCompleted || w.Status == StatusFailed
}

// Clone returns a deep copy, so callers can hand wishes across goroutine
// boundaries without sharing mutable state.
func (w *Wish) Clone() *Wish {
	c := *w
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	if w.Result != nil {
		r := *w.Result
		c.Result = &r
	}
	return &c
}

// CloneWishes deep-copies a wish list.
func CloneWishes(wishes []*Wish) []*Wish {
	out := make([]*Wish, len(wishes))
	for i, w := range wishes {
		out[i] = w.Clone()
	}
	return out
}
