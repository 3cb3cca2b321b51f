package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gjinn/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based store. Wish records are stored as
// JSON blobs so the persisted shape stays byte-compatible with the other
// backends; position preserves the most-recent-first order.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	wishTableStmt := `
	CREATE TABLE IF NOT EXISTS wishes (
		user_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		data BLOB,
		PRIMARY KEY (user_id, id)
	);`
	if _, err = db.Exec(wishTableStmt); err != nil {
		log.Fatalf("failed to create wishes table: %v", err)
	}

	settingsTableStmt := `CREATE TABLE IF NOT EXISTS settings (user_id TEXT PRIMARY KEY, data BLOB);`
	if _, err = db.Exec(settingsTableStmt); err != nil {
		log.Fatalf("failed to create settings table: %v", err)
	}

	sharedTableStmt := `CREATE TABLE IF NOT EXISTS shared (id TEXT PRIMARY KEY, data BLOB);`
	if _, err = db.Exec(sharedTableStmt); err != nil {
		log.Fatalf("failed to create shared table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) LoadWishes(ctx context.Context, userID string) ([]*core.Wish, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM wishes WHERE user_id = ? ORDER BY position", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wishes := []*core.Wish{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var w core.Wish
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		w.UserID = userID
		wishes = append(wishes, &w)
	}
	return wishes, rows.Err()
}

func (s *sqliteStore) SaveWishes(ctx context.Context, userID string, wishes []*core.Wish) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM wishes WHERE user_id = ?", userID); err != nil {
		return err
	}
	for position, w := range wishes {
		data, err := json.Marshal(w)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO wishes (user_id, id, position, data) VALUES (?, ?, ?, ?)",
			userID, w.ID, position, data); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(wishes),
	}).Debug("Wishes saved")
	return nil
}

func (s *sqliteStore) LoadSettings(ctx context.Context, userID string) (*core.Settings, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM settings WHERE user_id = ?", userID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
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

func (s *sqliteStore) SaveSettings(ctx context.Context, userID string, settings *core.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO settings (user_id, data) VALUES (?, ?) ON CONFLICT(user_id) DO UPDATE SET data = excluded.data",
		userID, data)
	return err
}

func (s *sqliteStore) PublishShared(ctx context.Context, item *core.SharedCreation) (string, error) {
	id := ulid.Make().String()
	copied := *item
	copied.ID = id
	if copied.SharedAt.IsZero() {
		copied.SharedAt = time.Now()
	}
	data, err := json.Marshal(&copied)
	if err != nil {
		return "", err
	}

	if _, err := s.db.ExecContext(ctx, "INSERT INTO shared (id, data) VALUES (?, ?)", id, data); err != nil {
		logrus.WithField("shared_id", id).WithError(err).Error("Failed to publish creation")
		return "", err
	}
	logrus.WithField("shared_id", id).Info("Creation published")
	return id, nil
}

func (s *sqliteStore) FindShared(ctx context.Context, id string) (*core.SharedCreation, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM shared WHERE id = ?", id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
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
