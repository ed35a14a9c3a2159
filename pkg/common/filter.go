package common

import "strings"

// Filter families with special handling. Entity filters carry free text that
// is matched against result and path names; path tag filters apply to
// individual paths instead of whole results. Every other family is an
// ordinary result facet.
const (
	FamilyEntity  = "str"
	FamilyPathTag = "pt"
)

// Filter is one active filter. Facet filters use the tag ID they match
// against; entity filters use the FamilyEntity prefix with the search text as
// value. Negated inverts the match into an exclusion.
type Filter struct {
	ID      string `json:"id"`
	Value   string `json:"value"`
	Negated bool   `json:"negated"`
}

// NewEntityFilter builds a free-text filter for the given search term.
func NewEntityFilter(term string) Filter {
	return Filter{ID: FamilyEntity + "/" + term, Value: term}
}

// Family returns the filter's family, the first "/"-delimited segment of its
// ID. Filters in the same family combine with OR, across families with AND.
func (f Filter) Family() string {
	if idx := strings.Index(f.ID, "/"); idx != -1 {
		return f.ID[:idx]
	}
	return f.ID
}

// IsEntity reports whether the filter is a free-text entity filter.
func (f Filter) IsEntity() bool {
	return f.Family() == FamilyEntity
}

// IsPathFilter reports whether the filter applies to individual paths rather
// than whole results.
func (f Filter) IsPathFilter() bool {
	return f.Family() == FamilyPathTag
}

// IsResultFilter reports whether the filter applies to whole results.
func (f Filter) IsResultFilter() bool {
	return !f.IsEntity() && !f.IsPathFilter()
}

// SplitFilters partitions filters into path filters, result facets and
// exclusion filters. Negated facets act as ordinary per-result exclusions
// instead of participating in the AND/OR facet composition.
func SplitFilters(filters []Filter) (path, facet, exclusion []Filter) {
	for _, f := range filters {
		switch {
		case f.IsPathFilter():
			path = append(path, f)
		case f.Negated:
			exclusion = append(exclusion, f)
		default:
			facet = append(facet, f)
		}
	}
	return path, facet, exclusion
}

// GroupByFamily buckets filters by their family, preserving order within a
// family.
func GroupByFamily(filters []Filter) map[string][]Filter {
	grouped := make(map[string][]Filter)
	for _, f := range filters {
		grouped[f.Family()] = append(grouped[f.Family()], f)
	}
	return grouped
}
