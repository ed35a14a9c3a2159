// Package registry persists submitted queries: their upstream id, status and
// the S3 keys of the applied and freshest raw snapshots.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no query with the given id exists.
var ErrNotFound = errors.New("query not found")

// Query statuses mirror the upstream lifecycle.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Query is one registered query. AppliedKey is the snapshot currently served
// as the visible result set; FreshKey the newest archived snapshot. The two
// differ while a fresh payload waits for an explicit refresh.
type Query struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Label      string    `json:"label"`
	Curie      string    `json:"curie"`
	Type       string    `json:"type"`
	Direction  string    `json:"direction,omitempty"`
	Status     string    `json:"status"`
	AppliedKey string    `json:"-"`
	FreshKey   string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Store struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

func (s *Store) Create(ctx context.Context, q Query) error {
	_, err := s.db.Exec(ctx, createSQL,
		q.ID, q.UserID, q.Label, q.Curie, q.Type, q.Direction, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to register query: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Query, error) {
	var q Query
	err := s.db.QueryRow(ctx, getSQL, id).Scan(
		&q.ID, &q.UserID, &q.Label, &q.Curie, &q.Type, &q.Direction,
		&q.Status, &q.AppliedKey, &q.FreshKey, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Query{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Query{}, fmt.Errorf("failed to load query: %w", err)
	}
	return q, nil
}

// ListForUser returns the user's queries, newest first.
func (s *Store) ListForUser(ctx context.Context, userID int64) ([]Query, error) {
	rows, err := s.db.Query(ctx, listForUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer rows.Close()

	var queries []Query
	for rows.Next() {
		var q Query
		if err := rows.Scan(
			&q.ID, &q.UserID, &q.Label, &q.Curie, &q.Type, &q.Direction,
			&q.Status, &q.AppliedKey, &q.FreshKey, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	_, err := s.db.Exec(ctx, setStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("failed to update query status: %w", err)
	}
	return nil
}

// SetAppliedKey records a snapshot as both applied and fresh: nothing newer
// is pending afterwards.
func (s *Store) SetAppliedKey(ctx context.Context, id, key string) error {
	_, err := s.db.Exec(ctx, setAppliedKeySQL, id, key)
	if err != nil {
		return fmt.Errorf("failed to update applied snapshot: %w", err)
	}
	return nil
}

func (s *Store) SetFreshKey(ctx context.Context, id, key string) error {
	_, err := s.db.Exec(ctx, setFreshKeySQL, id, key)
	if err != nil {
		return fmt.Errorf("failed to update fresh snapshot: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string, userID int64) error {
	tag, err := s.db.Exec(ctx, deleteSQL, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

const createSQL = `
INSERT INTO queries (id, user_id, label, curie, node_type, direction, status)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`

const getSQL = `
SELECT id, user_id, label, curie, node_type, direction, status,
       applied_key, fresh_key, created_at, updated_at
FROM queries
WHERE id = $1;
`

const listForUserSQL = `
SELECT id, user_id, label, curie, node_type, direction, status,
       applied_key, fresh_key, created_at, updated_at
FROM queries
WHERE user_id = $1
ORDER BY created_at DESC;
`

const setStatusSQL = `
UPDATE queries SET status = $2, updated_at = now() WHERE id = $1;
`

const setAppliedKeySQL = `
UPDATE queries SET applied_key = $2, fresh_key = $2, updated_at = now() WHERE id = $1;
`

const setFreshKeySQL = `
UPDATE queries SET fresh_key = $2, updated_at = now() WHERE id = $1;
`

const deleteSQL = `
DELETE FROM queries WHERE id = $1 AND user_id = $2;
`
