package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/lendsqr-admin/internal/models"
	"github.com/hongminglow/lendsqr-admin/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.HandoffStore interface at compile time.
var _ storage.HandoffStore = (*Store)(nil)

// Store provides Postgres-backed hand-off slots, one row per session. Rows
// older than ttl read as missing and are pruned on write.
type Store struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewHandoffStore creates a new Store and runs migrations. A non-positive ttl
// keeps rows forever.
func NewHandoffStore(ctx context.Context, databaseURL string, ttl time.Duration) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool, ttl: ttl}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_handoff (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			record JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS user_handoff_updated_at_idx ON user_handoff (updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// Put overwrites the session's slot with user.
func (s *Store) Put(ctx context.Context, sessionID string, user models.User) error {
	const query = `
		INSERT INTO user_handoff (session_id, user_id, record, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET user_id = EXCLUDED.user_id, record = EXCLUDED.record, updated_at = EXCLUDED.updated_at;
	`
	record, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode handoff: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, sessionID, user.ID.String(), string(record)); err != nil {
		return fmt.Errorf("store handoff: %w", err)
	}
	return s.prune(ctx)
}

// prune deletes rows whose session has expired.
func (s *Store) prune(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	const query = `DELETE FROM user_handoff WHERE updated_at < NOW() - ($1::double precision * INTERVAL '1 second');`
	if _, err := s.pool.Exec(ctx, query, s.ttl.Seconds()); err != nil {
		return fmt.Errorf("prune handoff: %w", err)
	}
	return nil
}

// Get reads the session's slot.
func (s *Store) Get(ctx context.Context, sessionID string) (models.User, error) {
	const query = `
		SELECT record::text FROM user_handoff
		WHERE session_id = $1
		  AND ($2::double precision <= 0 OR updated_at >= NOW() - ($2::double precision * INTERVAL '1 second'));
	`

	var record string
	if err := s.pool.QueryRow(ctx, query, sessionID, s.ttl.Seconds()).Scan(&record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("load handoff: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(record), &user); err != nil {
		return models.User{}, fmt.Errorf("decode handoff: %w", err)
	}
	return user, nil
}
