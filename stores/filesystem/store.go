package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gjinn/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const (
	wishesFile   = "wishes.json"
	settingsFile = "settings.json"
	sharedDir    = "shared"
)

type fsStore struct {
	basePath string
}

// NewStore creates a new filesystem-based store.
func NewStore(basePath string) *fsStore {
	if err := os.MkdirAll(filepath.Join(basePath, sharedDir), 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fsStore{basePath: basePath}
}

// userPath resolves a per-user file, rejecting ids that would escape the
// base directory.
func (s *fsStore) userPath(userID, name string) (string, error) {
	dir := filepath.Join(s.basePath, userID)
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absDir, absBase) {
		return "", fmt.Errorf("invalid user id: access denied")
	}
	return filepath.Join(dir, name), nil
}

func (s *fsStore) LoadWishes(ctx context.Context, userID string) ([]*core.Wish, error) {
	path, err := s.userPath(userID, wishesFile)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "path": path})

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("No stored wishes, returning empty list")
			return []*core.Wish{}, nil
		}
		log.WithError(err).Error("Failed to read wishes file")
		return nil, err
	}

	var wishes []*core.Wish
	if err := json.Unmarshal(data, &wishes); err != nil {
		log.WithError(err).Error("Failed to unmarshal stored wishes")
		return nil, err
	}
	return wishes, nil
}

func (s *fsStore) SaveWishes(ctx context.Context, userID string, wishes []*core.Wish) error {
	path, err := s.userPath(userID, wishesFile)
	if err != nil {
		return err
	}
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "count": len(wishes)})

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.WithError(err).Error("Failed to create user directory")
		return err
	}
	data, err := json.Marshal(wishes)
	if err != nil {
		log.WithError(err).Error("Failed to marshal wishes")
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write wishes file")
		return err
	}
	log.Debug("Wishes saved")
	return nil
}

func (s *fsStore) LoadSettings(ctx context.Context, userID string) (*core.Settings, error) {
	path, err := s.userPath(userID, settingsFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var settings core.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *fsStore) SaveSettings(ctx context.Context, userID string, settings *core.Settings) error {
	path, err := s.userPath(userID, settingsFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *fsStore) PublishShared(ctx context.Context, item *core.SharedCreation) (string, error) {
	id := ulid.Make().String()
	path := filepath.Join(s.basePath, sharedDir, id+".json")
	log := logrus.WithFields(logrus.Fields{"shared_id": id, "path": path})

	copied := *item
	copied.ID = id
	if copied.SharedAt.IsZero() {
		copied.SharedAt = time.Now()
	}
	data, err := json.Marshal(&copied)
	if err != nil {
		log.WithError(err).Error("Failed to marshal shared creation")
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write shared creation")
		return "", err
	}
	log.Info("Creation published")
	return id, nil
}

func (s *fsStore) FindShared(ctx context.Context, id string) (*core.SharedCreation, error) {
	// Share ids are ULIDs; anything resembling a path is rejected.
	if filepath.Base(id) != id || id == "" || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid shared id")
	}
	path := filepath.Join(s.basePath, sharedDir, id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("shared creation with id %s not found", id)
		}
		return nil, err
	}
	var item core.SharedCreation
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
