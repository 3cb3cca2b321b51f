package core

import (
	"context"
	"time"
)

type (
	// SharedCreation is a completed wish published to the public gallery. It
	// is a snapshot: later changes to the wish do not affect it.
	SharedCreation struct {
		ID       string   `json:"id"`
		Prompt   string   `json:"prompt"`
		Kind     WishKind `json:"type"`
		Result   *Result  `json:"result"`
		SharedBy string   `json:"sharedBy,omitempty"` // display name, never the auth subject
		SharedAt time.Time `json:"sharedAt"`
	}

	// ShareStore persists published creations for anonymous retrieval.
	ShareStore interface {
		// PublishShared stores a snapshot and returns its generated id.
		PublishShared(ctx context.Context, item *SharedCreation) (string, error)

		// FindShared returns a published creation by id.
		FindShared(ctx context.Context, id string) (*SharedCreation, error)
	}
)
