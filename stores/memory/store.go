package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gjinn/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// memStore keeps everything in process memory. It deep-copies on the way
// in and out, so callers never share mutable state with the store.
type memStore struct {
	mu       sync.RWMutex
	wishes   map[string][]*core.Wish
	settings map[string]*core.Settings
	shared   map[string]*core.SharedCreation
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{
		wishes:   make(map[string][]*core.Wish),
		settings: make(map[string]*core.Settings),
		shared:   make(map[string]*core.SharedCreation),
	}
}

func (s *memStore) LoadWishes(ctx context.Context, userID string) ([]*core.Wish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return core.CloneWishes(s.wishes[userID]), nil
}

func (s *memStore) SaveWishes(ctx context.Context, userID string, wishes []*core.Wish) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishes[userID] = core.CloneWishes(wishes)
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(wishes),
	}).Debug("Wishes saved")
	return nil
}

func (s *memStore) LoadSettings(ctx context.Context, userID string) (*core.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings[userID].Clone(), nil
}

func (s *memStore) SaveSettings(ctx context.Context, userID string, settings *core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[userID] = settings.Clone()
	return nil
}

func (s *memStore) PublishShared(ctx context.Context, item *core.SharedCreation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.Make().String()
	copied := *item
	copied.ID = id
	if copied.SharedAt.IsZero() {
		copied.SharedAt = time.Now()
	}
	s.shared[id] = &copied
	logrus.WithField("shared_id", id).Info("Creation published")
	return id, nil
}

func (s *memStore) FindShared(ctx context.Context, id string) (*core.SharedCreation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.shared[id]
	if !ok {
		return nil, fmt.Errorf("shared creation with id %s not found", id)
	}
	copied := *item
	return &copied, nil
}
