// Package saves persists user bookmarks and notes on results.
package saves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"translator/internal/util"
	"translator/pkg/results"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no save with the given id belongs to the user.
var ErrNotFound = errors.New("save not found")

// TypeBookmark is the only save type currently written; the column exists so
// other kinds of saves can share the table.
const TypeBookmark = "bookmark"

// Save is one bookmarked result. Data holds the client's snapshot of the
// result at save time and is normalized for legacy publication formats on
// load.
type Save struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Type      string          `json:"type"`
	Label     string          `json:"label"`
	Notes     string          `json:"notes"`
	QueryID   string          `json:"query_id"`
	ResultID  string          `json:"result_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Store struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

func (s *Store) Create(ctx context.Context, save Save) (Save, error) {
	if save.ID == "" {
		id, err := util.NewID()
		if err != nil {
			return Save{}, err
		}
		save.ID = id
	}
	if save.Type == "" {
		save.Type = TypeBookmark
	}

	_, err := s.db.Exec(ctx, createSQL,
		save.ID, save.UserID, save.Type, save.Label, save.Notes,
		save.QueryID, save.ResultID, save.Data)
	if err != nil {
		return Save{}, fmt.Errorf("failed to create save: %w", err)
	}
	return s.Get(ctx, save.UserID, save.ID)
}

func (s *Store) Get(ctx context.Context, userID int64, id string) (Save, error) {
	var save Save
	err := s.db.QueryRow(ctx, getSQL, id, userID).Scan(
		&save.ID, &save.UserID, &save.Type, &save.Label, &save.Notes,
		&save.QueryID, &save.ResultID, &save.Data, &save.CreatedAt, &save.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Save{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Save{}, fmt.Errorf("failed to load save: %w", err)
	}
	save.Data = NormalizeSaveData(save.Data)
	return save, nil
}

// ListForUser returns the user's saves, newest first.
func (s *Store) ListForUser(ctx context.Context, userID int64) ([]Save, error) {
	rows, err := s.db.Query(ctx, listForUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()
	return scanSaves(rows)
}

// ListForQuery returns the user's saves on one query.
func (s *Store) ListForQuery(ctx context.Context, userID int64, queryID string) ([]Save, error) {
	rows, err := s.db.Query(ctx, listForQuerySQL, userID, queryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()
	return scanSaves(rows)
}

// Update rewrites label, notes and data of an existing save.
func (s *Store) Update(ctx context.Context, userID int64, id string, label, notes string, data json.RawMessage) (Save, error) {
	tag, err := s.db.Exec(ctx, updateSQL, id, userID, label, notes, data)
	if err != nil {
		return Save{}, fmt.Errorf("failed to update save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Save{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Get(ctx, userID, id)
}

func (s *Store) Delete(ctx context.Context, userID int64, id string) error {
	tag, err := s.db.Exec(ctx, deleteSQL, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// StateForQuery builds the per-result save state of one query, the shape the
// result list decorates its entries with.
func (s *Store) StateForQuery(ctx context.Context, userID int64, queryID string) (map[string]results.SaveState, error) {
	list, err := s.ListForQuery(ctx, userID, queryID)
	if err != nil {
		return nil, err
	}
	state := make(map[string]results.SaveState, len(list))
	for _, save := range list {
		state[save.ResultID] = results.SaveState{
			BookmarkID: save.ID,
			HasNotes:   save.Notes != "",
		}
	}
	return state, nil
}

func scanSaves(rows pgx.Rows) ([]Save, error) {
	var list []Save
	for rows.Next() {
		var save Save
		if err := rows.Scan(
			&save.ID, &save.UserID, &save.Type, &save.Label, &save.Notes,
			&save.QueryID, &save.ResultID, &save.Data, &save.CreatedAt, &save.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan save: %w", err)
		}
		save.Data = NormalizeSaveData(save.Data)
		list = append(list, save)
	}
	return list, rows.Err()
}

const createSQL = `
INSERT INTO saves (id, user_id, save_type, label, notes, query_id, result_id, data)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

const getSQL = `
SELECT id, user_id, save_type, label, notes, query_id, result_id, data,
       created_at, updated_at
FROM saves
WHERE id = $1 AND user_id = $2;
`

const listForUserSQL = `
SELECT id, user_id, save_type, label, notes, query_id, result_id, data,
       created_at, updated_at
FROM saves
WHERE user_id = $1
ORDER BY created_at DESC;
`

const listForQuerySQL = `
SELECT id, user_id, save_type, label, notes, query_id, result_id, data,
       created_at, updated_at
FROM saves
WHERE user_id = $1 AND query_id = $2
ORDER BY created_at DESC;
`

const updateSQL = `
UPDATE saves
SET label = $3, notes = $4, data = $5, updated_at = now()
WHERE id = $1 AND user_id = $2;
`

const deleteSQL = `
DELETE FROM saves
WHERE id = $1 AND user_id = $2;
`
