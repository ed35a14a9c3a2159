// Package lists holds the in-memory view controllers the API serves from,
// one per query, hydrated lazily from the snapshot archive.
package lists

import (
	"context"
	"sync"

	"translator/internal/registry"
	"translator/internal/storage"
	"translator/internal/util"
	"translator/pkg/common"
	"translator/pkg/logger"
	"translator/pkg/results"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Manager maps query ids to their result lists. The worker only advances
// snapshot keys in the registry; the manager notices key changes on access
// and feeds the archived payloads into the list, preserving its merge
// semantics (first payload applies, later ones stash until refresh).
type Manager struct {
	mu      sync.Mutex
	s3      *awss3.Client
	queries *registry.Store
	entries map[string]*managed
}

type managed struct {
	list       *results.List
	appliedKey string
	freshKey   string
}

func NewManager(s3Client *awss3.Client, queries *registry.Store) *Manager {
	return &Manager{
		s3:      s3Client,
		queries: queries,
		entries: make(map[string]*managed),
	}
}

// Get returns the up-to-date list of a registered query.
func (m *Manager) Get(ctx context.Context, queryID string) (*results.List, registry.Query, error) {
	q, err := m.queries.Get(ctx, queryID)
	if err != nil {
		return nil, registry.Query{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[queryID]
	if !ok {
		entry = &managed{list: results.NewList(queryID)}
		m.entries[queryID] = entry
	}

	if q.AppliedKey != "" && q.AppliedKey != entry.appliedKey {
		set, err := m.loadSnapshot(ctx, q.AppliedKey)
		if err != nil {
			return nil, registry.Query{}, err
		}
		entry.list.Apply(set)
		entry.appliedKey = q.AppliedKey
	}

	if q.FreshKey != "" && q.FreshKey != q.AppliedKey && q.FreshKey != entry.freshKey {
		set, err := m.loadSnapshot(ctx, q.FreshKey)
		if err != nil {
			logger.Warn("[Lists] Failed to load fresh snapshot", "query_id", queryID, "err", err)
		} else {
			entry.list.Stash(set)
			entry.freshKey = q.FreshKey
		}
	}

	return entry.list, q, nil
}

// loadSnapshot fetches an archived payload, retrying transient store errors.
func (m *Manager) loadSnapshot(ctx context.Context, key string) (*common.ResultSet, error) {
	return util.RetryWithContext(ctx, 3, func(ctx context.Context) (*common.ResultSet, error) {
		return storage.GetSnapshot(ctx, m.s3, key)
	})
}

// Refresh applies a pending fresh snapshot and records it as applied.
func (m *Manager) Refresh(ctx context.Context, queryID string) (*results.List, bool, error) {
	list, q, err := m.Get(ctx, queryID)
	if err != nil {
		return nil, false, err
	}

	if !list.Refresh() {
		return list, false, nil
	}

	if q.FreshKey != "" && q.FreshKey != q.AppliedKey {
		if err := m.queries.SetAppliedKey(ctx, queryID, q.FreshKey); err != nil {
			logger.Warn("[Lists] Failed to record refreshed snapshot", "query_id", queryID, "err", err)
		}
		m.mu.Lock()
		if entry, ok := m.entries[queryID]; ok {
			entry.appliedKey = q.FreshKey
		}
		m.mu.Unlock()
	}

	return list, true, nil
}

// Remove drops the in-memory list of a deleted query.
func (m *Manager) Remove(queryID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, queryID)
}
