package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// SQLiteStore persists event/profile state in a key/value table and relays
// changes through an in-process broadcaster.
type SQLiteStore struct {
	db    *sql.DB
	bcast *Broadcaster
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent; the store
	// sees little traffic.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteStore{
		db:    db,
		bcast: NewBroadcaster(),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}
	if err := s.seedDefaults(); err != nil {
		return nil, fmt.Errorf("error seeding defaults: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seedDefaults writes the initial event and profile if the store is empty,
// so a fresh install starts calm with the first preset, already persisted.
func (s *SQLiteStore) seedDefaults() error {
	ctx := context.Background()

	if _, err := s.get(ctx, KeyEvent); errors.Is(err, sql.ErrNoRows) {
		if err := s.set(ctx, KeyEvent, string(models.EventCalm)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := s.get(ctx, KeyProfile); errors.Is(err, sql.ErrNoRows) {
		raw, err := json.Marshal(models.DefaultProfile())
		if err != nil {
			return err
		}
		if err := s.set(ctx, KeyProfile, string(raw)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

func (s *SQLiteStore) Event(ctx context.Context) (models.EventState, error) {
	value, err := s.get(ctx, KeyEvent)
	if err != nil {
		return "", fmt.Errorf("error reading event: %w", err)
	}
	event, err := models.ParseEventState(value)
	if err != nil {
		// A corrupted slot degrades to calm rather than failing every read.
		return models.EventCalm, nil
	}
	return event, nil
}

func (s *SQLiteStore) SetEvent(ctx context.Context, event models.EventState) error {
	if err := s.set(ctx, KeyEvent, string(event)); err != nil {
		return fmt.Errorf("error writing event: %w", err)
	}
	s.bcast.Broadcast(Change{Key: KeyEvent, Event: event})
	return nil
}

func (s *SQLiteStore) Profile(ctx context.Context) (models.UserProfile, error) {
	value, err := s.get(ctx, KeyProfile)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("error reading profile: %w", err)
	}
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		return models.DefaultProfile(), nil
	}
	return profile, nil
}

func (s *SQLiteStore) SetProfile(ctx context.Context, profile models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("error encoding profile: %w", err)
	}
	if err := s.set(ctx, KeyProfile, string(raw)); err != nil {
		return fmt.Errorf("error writing profile: %w", err)
	}
	s.bcast.Broadcast(Change{Key: KeyProfile, Profile: profile})
	return nil
}

func (s *SQLiteStore) Subscribe() (uint64, <-chan Change) {
	return s.bcast.Subscribe()
}

func (s *SQLiteStore) Unsubscribe(id uint64) {
	s.bcast.Unsubscribe(id)
}

func (s *SQLiteStore) Close() error {
	s.bcast.Close()
	return s.db.Close()
}
