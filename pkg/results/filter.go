package results

import (
	"strings"

	"translator/pkg/common"
)

// rankExcluded is the sentinel rank for paths hard-excluded by a path-level
// facet.
const rankExcluded = 1 << 30

// PathRank is the transient relevance structure mirroring a path's support
// tree. Rank magnitude encodes filter and search relevance: more negative is
// more relevant, positive is filtered, rankExcluded is hard-excluded.
type PathRank struct {
	Rank    int
	Path    *PathEntry
	Support []*PathRank
}

// PathFilterState records, per ancestry-qualified path, whether the path is
// hidden under the current filters. The same path ID can appear under
// different parents, so keys qualify the path by its result and support
// ancestry.
type PathFilterState map[string]bool

// NewPathFilterState builds an all-visible state covering every path of the
// given entries, support paths included.
func NewPathFilterState(entries []*Entry) PathFilterState {
	state := make(PathFilterState)
	for _, entry := range entries {
		for _, path := range entry.Paths {
			resetPathState(state, entry.ID, path)
		}
	}
	return state
}

func resetPathState(state PathFilterState, ancestry string, path *PathEntry) {
	key := ancestry + "." + path.ID
	state[key] = false
	for _, slot := range path.Edges {
		for _, sp := range slot.Support {
			resetPathState(state, key, sp)
		}
	}
}

// ApplyFilters runs the full filter pass: entity filters and negated facets
// exclude whole results, remaining facets combine with OR within a family and
// AND across families, path filters and text-match ranks derive the new path
// filter state. The scan always starts from the unfiltered originals so
// removing a filter brings results back. The second returned slice holds the
// pre-facet survivors; facet counts run over those, not the displayed list,
// so the one-missing-family leniency in CountTags can still surface what one
// more facet would yield.
func ApplyFilters(
	filters []common.Filter,
	entityFilters []common.Filter,
	original []*Entry,
) ([]*Entry, []*Entry, PathFilterState) {
	if len(filters) == 0 && len(entityFilters) == 0 {
		return append([]*Entry(nil), original...),
			append([]*Entry(nil), original...),
			NewPathFilterState(original)
	}

	pathFilters, facets, exclusions := common.SplitFilters(filters)

	ranks := make(map[string][]*PathRank, len(original))
	for _, entry := range original {
		ranks[entry.ID] = makePathRanks(entry.Paths)
	}

	// Exclusion pass. Entity filters adjust path ranks as a side effect of
	// the text scan, so they run even for results another filter excludes.
	var survivors []*Entry
	for _, entry := range original {
		excluded := false
		for _, f := range entityFilters {
			matched := matchEntity(entry, f.Value, ranks[entry.ID], !f.Negated)
			if f.Negated == matched {
				excluded = true
			}
		}
		if !excluded {
			for _, f := range exclusions {
				_, tagged := entry.Tags[f.ID]
				if f.Negated == tagged {
					excluded = true
					break
				}
			}
		}
		if !excluded {
			survivors = append(survivors, entry)
		}
	}

	// Facet pass: OR within a family, AND across families.
	grouped := common.GroupByFamily(facets)
	var faceted []*Entry
	for _, entry := range survivors {
		if matchesAllFamilies(entry, grouped) {
			faceted = append(faceted, entry)
		}
	}

	// Path facets hard-exclude non-matching paths.
	for _, entry := range original {
		for _, pr := range ranks[entry.ID] {
			applyPathFilters(pr, pathFilters)
		}
	}

	// A zero rank means "no match anywhere in this path"; whether that hides
	// the path depends on whether any path matched at all.
	unrankedIsFiltered := false
	for _, entry := range original {
		for _, pr := range ranks[entry.ID] {
			if hasNegativeRank(pr) {
				unrankedIsFiltered = true
			}
		}
	}

	newState := make(PathFilterState)
	for _, entry := range original {
		for _, pr := range ranks[entry.ID] {
			derivePathState(newState, entry.ID, pr, unrankedIsFiltered)
		}
	}

	// A result survives only if at least one of its paths stays visible.
	var kept []*Entry
	for _, entry := range faceted {
		visible := false
		for _, path := range entry.Paths {
			if !newState[entry.ID+"."+path.ID] {
				visible = true
				break
			}
		}
		if visible {
			kept = append(kept, entry)
		}
	}

	return kept, survivors, newState
}

func makePathRanks(paths []*PathEntry) []*PathRank {
	ranks := make([]*PathRank, len(paths))
	for i, path := range paths {
		pr := &PathRank{Path: path}
		for _, slot := range path.Edges {
			if len(slot.Support) > 0 {
				pr.Support = append(pr.Support, makePathRanks(slot.Support)...)
			}
		}
		ranks[i] = pr
	}
	return ranks
}

// matchEntity reports whether the search term matches the result's name or
// any of its paths, case-insensitively. When rank is set, matching paths get
// their rank decremented and a matched support path propagates its negative
// rank to the parent. Negated filters match without ranking: their results
// leave the list entirely, so their paths must not count as relevant.
func matchEntity(entry *Entry, term string, ranks []*PathRank, rank bool) bool {
	term = strings.ToLower(term)
	matched := strings.Contains(strings.ToLower(entry.Name), term)
	if entry.Object != nil && strings.Contains(strings.ToLower(entry.Object.Name), term) {
		matched = true
	}
	for _, pr := range ranks {
		if matchPathRank(pr, term, rank) {
			matched = true
		}
	}
	return matched
}

func matchPathRank(pr *PathRank, term string, rank bool) bool {
	matched := false
	if strings.Contains(strings.ToLower(pr.Path.StringName), term) {
		if rank {
			pr.Rank--
		}
		matched = true
	}
	for _, sp := range pr.Support {
		if matchPathRank(sp, term, rank) {
			matched = true
			if rank && sp.Rank < 0 {
				pr.Rank += sp.Rank
			}
		}
	}
	return matched
}

func matchesAllFamilies(entry *Entry, grouped map[string][]common.Filter) bool {
	for _, family := range grouped {
		matched := false
		for _, f := range family {
			if _, ok := entry.Tags[f.ID]; ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func applyPathFilters(pr *PathRank, pathFilters []common.Filter) {
	for _, f := range pathFilters {
		_, tagged := pr.Path.Tags[f.ID]
		if f.Negated == tagged {
			pr.Rank = rankExcluded
		}
	}
	for _, sp := range pr.Support {
		applyPathFilters(sp, pathFilters)
	}
}

func hasNegativeRank(pr *PathRank) bool {
	if pr.Rank < 0 {
		return true
	}
	for _, sp := range pr.Support {
		if hasNegativeRank(sp) {
			return true
		}
	}
	return false
}

// derivePathState marks the path hidden or visible and recurses into its
// support tree. A path with support is hidden only if all of its support
// paths are hidden; a leaf is hidden if its rank is positive, or zero while a
// match exists elsewhere in the result set.
func derivePathState(state PathFilterState, ancestry string, pr *PathRank, unrankedIsFiltered bool) bool {
	key := ancestry + "." + pr.Path.ID

	if pr.Rank >= rankExcluded {
		state[key] = true
		for _, sp := range pr.Support {
			derivePathState(state, key, sp, unrankedIsFiltered)
		}
		return true
	}

	if len(pr.Support) > 0 {
		allFiltered := true
		for _, sp := range pr.Support {
			if !derivePathState(state, key, sp, unrankedIsFiltered) {
				allFiltered = false
			}
		}
		state[key] = allFiltered
		return allFiltered
	}

	filtered := pr.Rank > 0 || (pr.Rank == 0 && unrankedIsFiltered)
	state[key] = filtered
	return filtered
}

// CountTags computes facet counts for the given results. A result missing
// exactly one active facet family still contributes counts for tags in that
// missing family, so the UI can show what adding one more facet would yield;
// results missing two or more families contribute nothing. Tags matching a
// negated facet accumulate in a separate pool.
func CountTags(entries []*Entry, filters []common.Filter) (map[string]int, map[string]int) {
	counts := make(map[string]int)
	negated := make(map[string]int)

	var active, negatedFacets []common.Filter
	for _, f := range filters {
		if !f.IsResultFilter() {
			continue
		}
		if f.Negated {
			negatedFacets = append(negatedFacets, f)
		} else {
			active = append(active, f)
		}
	}
	grouped := common.GroupByFamily(active)

	for _, entry := range entries {
		var missing []string
		for family, fs := range grouped {
			matched := false
			for _, f := range fs {
				if _, ok := entry.Tags[f.ID]; ok {
					matched = true
					break
				}
			}
			if !matched {
				missing = append(missing, family)
			}
		}
		if len(missing) >= 2 {
			continue
		}

		for id := range entry.Tags {
			if isNegatedTag(id, negatedFacets) {
				negated[id]++
				continue
			}
			if len(missing) == 1 && tagFamily(id) != missing[0] {
				continue
			}
			counts[id]++
		}
	}

	return counts, negated
}

func isNegatedTag(id string, negatedFacets []common.Filter) bool {
	for _, f := range negatedFacets {
		if f.ID == id {
			return true
		}
	}
	return false
}

func tagFamily(id string) string {
	if idx := strings.Index(id, "/"); idx != -1 {
		return id[:idx]
	}
	return id
}
