package results

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sync"

	"translator/pkg/common"
	"translator/pkg/logger"
)

var (
	// ErrUnknownResult is returned when a result ID is not in the list.
	ErrUnknownResult = errors.New("unknown result")
	// ErrUnknownPath is returned when a path ID is not on the result.
	ErrUnknownPath = errors.New("unknown path")
)

// SaveState is the bookmark and notes state of a single result, provided by
// the user-saves collaborator.
type SaveState struct {
	BookmarkID string
	HasNotes   bool
}

// SavesLookup resolves save state for a result ID. A nil lookup means no
// save data.
type SavesLookup func(resultID string) (SaveState, bool)

// List is the view controller over one query's results. It owns the raw
// snapshot, the unfiltered and displayed entry slices, the active filters,
// sort key, pagination and path filter state, and merges freshly polled
// snapshots without disrupting any of them.
//
// HTTP handlers and the snapshot feed touch a List concurrently, so all
// state transitions run under its mutex.
type List struct {
	mu sync.Mutex

	queryID string
	weights ScoreWeights
	saves   SavesLookup

	set   *common.ResultSet
	fresh *common.ResultSet

	original  []*Entry
	displayed []*Entry
	// unfaceted holds the entity- and exclusion-filtered results before the
	// facet pass; facet counts run over it so the one-missing-family
	// leniency can fire.
	unfaceted []*Entry

	filters       []common.Filter
	entityFilters []common.Filter
	sortKey       SortKey
	pathState     PathFilterState

	page     int
	pageSize int
}

// ListOption configures a List.
type ListOption func(*List)

// WithScoreWeights overrides the default scoring weights.
func WithScoreWeights(w ScoreWeights) ListOption {
	return func(l *List) { l.weights = w }
}

// WithSaves wires the user-saves collaborator into formatting.
func WithSaves(lookup SavesLookup) ListOption {
	return func(l *List) { l.saves = lookup }
}

// WithPageSize sets the initial page size.
func WithPageSize(size int) ListOption {
	return func(l *List) {
		if size > 0 {
			l.pageSize = size
		}
	}
}

// NewList creates an empty view controller for the given query.
func NewList(queryID string, opts ...ListOption) *List {
	l := &List{
		queryID:   queryID,
		weights:   DefaultScoreWeights(),
		sortKey:   SortScoreHighLow,
		pathState: make(PathFilterState),
		pageSize:  10,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply installs a freshly fetched snapshot as the visible result set,
// reformatting everything while keeping the active filters, sort key and
// pagination. Applying a snapshot deep-equal to the current one is a no-op;
// Apply reports whether the list changed.
func (l *List) Apply(set *common.ResultSet) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if set == nil || reflect.DeepEqual(l.set, set) {
		logger.Debug("[Results] Skipping identical snapshot", "query_id", l.queryID)
		return false
	}

	l.set = set
	l.fresh = nil
	l.original = l.formatLocked(set)
	l.recomputeLocked(false)
	return true
}

// Stash records a fresh snapshot without touching the visible list. The
// snapshot is applied later by Refresh, a user action, so scroll, filter and
// sort state survive background polling. Returns false when the payload is
// deep-equal to what is already visible or stashed.
func (l *List) Stash(set *common.ResultSet) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if set == nil || reflect.DeepEqual(l.set, set) || reflect.DeepEqual(l.fresh, set) {
		return false
	}
	l.fresh = set
	return true
}

// HasResults reports whether any results are currently visible.
func (l *List) HasResults() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.original) > 0
}

// FreshAvailable reports whether a stashed snapshot is waiting for Refresh.
func (l *List) FreshAvailable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fresh != nil
}

// Refresh applies a stashed snapshot, if any.
func (l *List) Refresh() bool {
	l.mu.Lock()
	fresh := l.fresh
	l.mu.Unlock()
	if fresh == nil {
		return false
	}
	return l.Apply(fresh)
}

// HandleFilter toggles a filter: adding it if absent, removing it when an
// identical one is active. Entity filters and facet filters are tracked
// separately. The first page is shown after every change.
func (l *List) HandleFilter(f common.Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()

	target := &l.filters
	if f.IsEntity() {
		target = &l.entityFilters
	}

	removed := false
	kept := (*target)[:0]
	for _, active := range *target {
		if active.ID == f.ID && active.Value == f.Value && active.Negated == f.Negated {
			removed = true
			continue
		}
		kept = append(kept, active)
	}
	if removed {
		*target = kept
	} else {
		*target = append(*target, f)
	}

	l.page = 0
	l.recomputeLocked(false)
}

// ClearFilters drops every active filter and resets the path filter state.
func (l *List) ClearFilters() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filters = nil
	l.entityFilters = nil
	l.page = 0
	l.recomputeLocked(false)
}

// HandleSort switches the active sort key and reorders the displayed list
// without re-running the filters.
func (l *List) HandleSort(key SortKey) {
	if !key.Valid() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sortKey = key
	l.recomputeLocked(true)
}

// SetPage selects the zero-based page to show.
func (l *List) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page >= 0 {
		l.page = page
	}
}

// SetPageSize changes the page size and returns to the first page.
func (l *List) SetPageSize(size int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if size > 0 {
		l.pageSize = size
		l.page = 0
	}
}

// recomputeLocked re-derives the displayed list. With justSort the filter
// pass is skipped and only the ordering changes.
func (l *List) recomputeLocked(justSort bool) {
	if !justSort {
		l.displayed, l.unfaceted, l.pathState = ApplyFilters(
			l.filters, l.entityFilters, l.original)
	}
	SortEntries(l.displayed, l.sortKey, l.entityFilters)
}

func (l *List) formatLocked(set *common.ResultSet) []*Entry {
	entries := FormatResults(set, l.weights)
	if l.saves != nil {
		for _, entry := range entries {
			if state, ok := l.saves(entry.ID); ok {
				entry.BookmarkID = state.BookmarkID
				entry.HasNotes = state.HasNotes
			}
		}
	}
	return entries
}

// View is one page of the shaped result list plus the state a client needs
// to render filters, facets and the refresh prompt.
type View struct {
	QueryID            string                `json:"query_id"`
	Status             string                `json:"status"`
	ARAs               []string              `json:"aras"`
	Page               int                   `json:"page"`
	PageSize           int                   `json:"page_size"`
	Total              int                   `json:"total"`
	TotalPages         int                   `json:"total_pages"`
	FreshAvailable     bool                  `json:"fresh_available"`
	SortKey            SortKey               `json:"sort_key"`
	Filters            []common.Filter       `json:"filters"`
	EntityFilters      []common.Filter       `json:"entity_filters"`
	Results            []*Entry              `json:"results"`
	PathFilterState    PathFilterState       `json:"path_filter_state"`
	FacetCounts        map[string]int        `json:"facet_counts"`
	NegatedFacetCounts map[string]int        `json:"negated_facet_counts"`
	Tags               map[string]common.Tag `json:"tags"`
}

// View returns the current page of the displayed list.
func (l *List) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	view := View{
		QueryID:         l.queryID,
		Page:            l.page,
		PageSize:        l.pageSize,
		Total:           len(l.displayed),
		FreshAvailable:  l.fresh != nil,
		SortKey:         l.sortKey,
		Filters:         append([]common.Filter(nil), l.filters...),
		EntityFilters:   append([]common.Filter(nil), l.entityFilters...),
		PathFilterState: l.pathState,
	}
	if l.set != nil {
		view.Status = l.set.Status
		view.ARAs = l.set.Data.Meta.ARAs
		view.Tags = l.set.Data.Tags
	}

	view.FacetCounts, view.NegatedFacetCounts = CountTags(l.unfaceted, l.filters)

	if l.pageSize > 0 {
		view.TotalPages = (len(l.displayed) + l.pageSize - 1) / l.pageSize
	}
	start := l.page * l.pageSize
	if start > len(l.displayed) {
		start = len(l.displayed)
	}
	end := start + l.pageSize
	if end > len(l.displayed) {
		end = len(l.displayed)
	}
	view.Results = append([]*Entry(nil), l.displayed[start:end]...)

	return view
}

// Entry returns the formatted entry for a result ID, filtered or not.
func (l *List) Entry(resultID string) (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.original {
		if entry.ID == resultID {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownResult, resultID)
}

// Evidence aggregates the evidence of a whole result, the payload behind the
// evidence modal.
func (l *List) Evidence(resultID string) (*Evidence, error) {
	entry, err := l.Entry(resultID)
	if err != nil {
		return nil, err
	}
	return FormatEvidence(entry.Paths), nil
}

// EdgeEvidence narrows the evidence modal to one edge slot of one path.
func (l *List) EdgeEvidence(resultID, pathID, edgeID string) (*Evidence, error) {
	entry, err := l.Entry(resultID)
	if err != nil {
		return nil, err
	}
	path := findPath(entry.Paths, pathID)
	if path == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, pathID)
	}
	for i, slot := range path.Edges {
		if slot.ID != edgeID {
			continue
		}
		// Only the slot's own endpoints go into the synthetic path, so the
		// evidence attributes sources to the edge's actual node pair.
		single := &PathEntry{
			ID:    path.ID,
			Nodes: path.Nodes[i : i+2],
			Edges: []*EdgeSlot{slot},
		}
		return FormatEvidence([]*PathEntry{single}), nil
	}
	return nil, fmt.Errorf("%w: edge %s on path %s", ErrUnknownPath, edgeID, pathID)
}

func findPath(paths []*PathEntry, pathID string) *PathEntry {
	for _, path := range paths {
		if path.ID == pathID {
			return path
		}
		for _, slot := range path.Edges {
			if found := findPath(slot.Support, pathID); found != nil {
				return found
			}
		}
	}
	return nil
}

// ShareLink builds the deep-link path for one result of this query.
func (l *List) ShareLink(label, nodeID, typeID, resultID string) string {
	params := url.Values{}
	params.Set("l", label)
	params.Set("i", nodeID)
	params.Set("t", typeID)
	params.Set("r", resultID)
	params.Set("q", l.queryID)
	return "results?" + params.Encode()
}
