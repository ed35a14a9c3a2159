package results

import (
	"sort"
	"strings"

	"translator/pkg/common"
)

// SortKey names one active ordering of the displayed result list. Exactly
// one key is active at a time; selecting a new one replaces the previous.
type SortKey string

const (
	SortNameLowHigh     SortKey = "nameLowHigh"
	SortNameHighLow     SortKey = "nameHighLow"
	SortEvidenceLowHigh SortKey = "evidenceLowHigh"
	SortEvidenceHighLow SortKey = "evidenceHighLow"
	SortPathsLowHigh    SortKey = "pathsLowHigh"
	SortPathsHighLow    SortKey = "pathsHighLow"
	SortScoreLowHigh    SortKey = "scoreLowHigh"
	SortScoreHighLow    SortKey = "scoreHighLow"
	SortEntityString    SortKey = "entityString"
)

// Valid reports whether the key names a known ordering.
func (k SortKey) Valid() bool {
	switch k {
	case SortNameLowHigh, SortNameHighLow, SortEvidenceLowHigh, SortEvidenceHighLow,
		SortPathsLowHigh, SortPathsHighLow, SortScoreLowHigh, SortScoreHighLow,
		SortEntityString:
		return true
	}
	return false
}

// SortEntries stably orders the entries in place by the given key. The
// entityString key needs the active free-text filters and sorts matching
// results first.
func SortEntries(entries []*Entry, key SortKey, entityFilters []common.Filter) {
	switch key {
	case SortNameLowHigh:
		sortByName(entries, true)
	case SortNameHighLow:
		sortByName(entries, false)
	case SortEvidenceLowHigh:
		sortByEvidence(entries, true)
	case SortEvidenceHighLow:
		sortByEvidence(entries, false)
	case SortPathsLowHigh:
		sortByPaths(entries, true)
	case SortPathsHighLow:
		sortByPaths(entries, false)
	case SortScoreLowHigh:
		sortByScore(entries, true)
	case SortScoreHighLow:
		sortByScore(entries, false)
	case SortEntityString:
		sortByEntityStrings(entries, entityFilters)
	}
}

// sortByName orders alphabetically on the display name. Multi-entity names
// from pathfinder queries join their legs with "/"; names with fewer legs
// order before names with more, then alphabetically.
func sortByName(entries []*Entry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a := strings.ToLower(entries[i].Name)
		b := strings.ToLower(entries[j].Name)
		if !ascending {
			a, b = b, a
		}
		slashA := strings.Count(a, "/")
		slashB := strings.Count(b, "/")
		if slashA != slashB {
			return slashA < slashB
		}
		return a < b
	})
}

func sortByEvidence(entries []*Entry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].EvidenceCount < entries[j].EvidenceCount
		}
		return entries[i].EvidenceCount > entries[j].EvidenceCount
	})
}

func sortByPaths(entries []*Entry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].PathCount < entries[j].PathCount
		}
		return entries[i].PathCount > entries[j].PathCount
	})
}

func sortByScore(entries []*Entry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Score, entries[j].Score
		if a.Main != b.Main {
			if ascending {
				return a.Main < b.Main
			}
			return a.Main > b.Main
		}
		if ascending {
			return a.Secondary < b.Secondary
		}
		return a.Secondary > b.Secondary
	})
}

// sortByEntityStrings moves results whose name contains any of the active
// search terms to the front.
func sortByEntityStrings(entries []*Entry, entityFilters []common.Filter) {
	terms := make([]string, 0, len(entityFilters))
	for _, f := range entityFilters {
		terms = append(terms, strings.ToLower(f.Value))
	}
	matches := func(entry *Entry) bool {
		name := strings.ToLower(entry.Name)
		for _, term := range terms {
			if term != "" && strings.Contains(name, term) {
				return true
			}
		}
		return false
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return matches(entries[i]) && !matches(entries[j])
	})
}
