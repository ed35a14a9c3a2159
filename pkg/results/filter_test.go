package results

import (
	"testing"

	"translator/pkg/common"
)

func tagMap(ids ...string) map[string]common.Tag {
	tags := make(map[string]common.Tag, len(ids))
	for _, id := range ids {
		tags[id] = common.Tag{Name: id}
	}
	return tags
}

func filterPath(id, stringName string, tags ...string) *PathEntry {
	return &PathEntry{
		ID:         id,
		StringName: stringName,
		Tags:       tagMap(tags...),
		Edges:      []*EdgeSlot{{ID: "slot-" + id}},
	}
}

func filterEntry(id, name string, tags []string, paths ...*PathEntry) *Entry {
	return &Entry{ID: id, Name: name, Tags: tagMap(tags...), Paths: paths}
}

func filterFixture() []*Entry {
	return []*Entry{
		filterEntry("r1", "Aspirin", []string{"cc/approved", "ara/aragorn"},
			filterPath("p1", "Aspirin treats Migraine Disorder", "pt/direct")),
		filterEntry("r2", "Metformin", []string{"cc/experimental", "ara/aragorn"},
			filterPath("p2", "Metformin treats Diabetes", "pt/inferred")),
		filterEntry("r3", "Ibuprofen", []string{"cc/approved", "ara/bte"},
			filterPath("p3", "Ibuprofen treats Headache", "pt/direct")),
	}
}

func keptIDs(entries []*Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func assertKept(t *testing.T, got []*Entry, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("kept %v, want %v", keptIDs(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("kept %v, want %v", keptIDs(got), want)
		}
	}
}

func TestApplyFiltersNoFilters(t *testing.T) {
	original := filterFixture()
	kept, unfaceted, state := ApplyFilters(nil, nil, original)
	assertKept(t, kept, "r1", "r2", "r3")
	assertKept(t, unfaceted, "r1", "r2", "r3")
	for key, hidden := range state {
		if hidden {
			t.Fatalf("path %s hidden with no active filters", key)
		}
	}
	// The returned slice must be a copy so sorting it later cannot reorder
	// the originals.
	kept[0], kept[1] = kept[1], kept[0]
	if original[0].ID != "r1" {
		t.Fatal("result of ApplyFilters aliases the original slice")
	}
}

func TestApplyFiltersFacets(t *testing.T) {
	tests := []struct {
		name    string
		filters []common.Filter
		want    []string
	}{
		{
			name:    "single facet",
			filters: []common.Filter{{ID: "cc/approved"}},
			want:    []string{"r1", "r3"},
		},
		{
			name:    "same family is OR",
			filters: []common.Filter{{ID: "cc/approved"}, {ID: "cc/experimental"}},
			want:    []string{"r1", "r2", "r3"},
		},
		{
			name:    "across families is AND",
			filters: []common.Filter{{ID: "cc/approved"}, {ID: "ara/aragorn"}},
			want:    []string{"r1"},
		},
		{
			name:    "negated facet excludes",
			filters: []common.Filter{{ID: "cc/approved", Negated: true}},
			want:    []string{"r2"},
		},
		{
			name: "negated facet combines with positive facet",
			filters: []common.Filter{
				{ID: "ara/aragorn"},
				{ID: "cc/approved", Negated: true},
			},
			want: []string{"r2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := filterFixture()
			kept, _, _ := ApplyFilters(tt.filters, nil, original)
			assertKept(t, kept, tt.want...)
		})
	}
}

func TestApplyFiltersEntityFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter common.Filter
		want   []string
	}{
		{
			name:   "keeps matching results",
			filter: common.NewEntityFilter("aspirin"),
			want:   []string{"r1"},
		},
		{
			name:   "negated excludes matching results",
			filter: common.Filter{ID: "str/aspirin", Value: "aspirin", Negated: true},
			want:   []string{"r2", "r3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := filterFixture()
			kept, _, _ := ApplyFilters(nil, []common.Filter{tt.filter}, original)
			assertKept(t, kept, tt.want...)
		})
	}
}

func TestApplyFiltersEntityFilterMatchesPathText(t *testing.T) {
	// r2's name does not contain the term but its path text does.
	original := filterFixture()
	kept, _, state := ApplyFilters(nil, []common.Filter{common.NewEntityFilter("diabetes")}, original)
	assertKept(t, kept, "r2")
	if state["r2.p2"] {
		t.Fatal("matching path p2 should stay visible")
	}
}

func TestApplyFiltersEntityFilterHidesUnmatchedPaths(t *testing.T) {
	entry := filterEntry("r1", "Aspirin", nil,
		filterPath("p1", "Aspirin treats Migraine Disorder"),
		filterPath("p2", "Aspirin affects COX-2"))
	original := []*Entry{entry}

	kept, _, state := ApplyFilters(nil, []common.Filter{common.NewEntityFilter("migraine")}, original)
	assertKept(t, kept, "r1")
	if state["r1.p1"] {
		t.Fatal("matching path p1 should stay visible")
	}
	if !state["r1.p2"] {
		t.Fatal("non-matching path p2 should be hidden while a match exists")
	}
}

func TestApplyFiltersPathFilter(t *testing.T) {
	original := filterFixture()
	kept, _, state := ApplyFilters([]common.Filter{{ID: "pt/direct"}}, nil, original)
	assertKept(t, kept, "r1", "r3")
	if state["r1.p1"] {
		t.Fatal("direct path p1 should stay visible")
	}
	if !state["r2.p2"] {
		t.Fatal("inferred path p2 should be hidden by the pt/direct filter")
	}
}

func TestApplyFiltersNegatedPathFilter(t *testing.T) {
	original := filterFixture()
	kept, _, state := ApplyFilters([]common.Filter{{ID: "pt/direct", Negated: true}}, nil, original)
	assertKept(t, kept, "r2")
	if !state["r1.p1"] {
		t.Fatal("direct path p1 should be hidden by the negated filter")
	}
}

func TestApplyFiltersSupportMatchKeepsParent(t *testing.T) {
	support := filterPath("sp1", "Aspirin affects COX-2")
	parent := &PathEntry{
		ID:         "p1",
		StringName: "Aspirin treats Migraine Disorder",
		Edges:      []*EdgeSlot{{ID: "slot-p1", Support: []*PathEntry{support}}},
	}
	original := []*Entry{{ID: "r1", Name: "result one", Paths: []*PathEntry{parent}}}

	kept, _, state := ApplyFilters(nil, []common.Filter{common.NewEntityFilter("cox-2")}, original)
	assertKept(t, kept, "r1")
	if state["r1.p1.sp1"] {
		t.Fatal("matching support path should stay visible")
	}
	if state["r1.p1"] {
		t.Fatal("parent of a matching support path should stay visible")
	}
}

func TestApplyFiltersReturnsPrefacetSurvivors(t *testing.T) {
	original := filterFixture()
	kept, unfaceted, _ := ApplyFilters([]common.Filter{{ID: "cc/approved"}}, nil, original)
	assertKept(t, kept, "r1", "r3")
	assertKept(t, unfaceted, "r1", "r2", "r3")

	// Counting over the survivors keeps the one-missing-family leniency
	// alive: r2 misses only the cc family, so its cc tag still counts.
	counts, _ := CountTags(unfaceted, []common.Filter{{ID: "cc/approved"}})
	if counts["cc/experimental"] != 1 {
		t.Fatalf("got %d for cc/experimental, want 1", counts["cc/experimental"])
	}
}

func TestApplyFiltersRemovingFilterRestoresResults(t *testing.T) {
	original := filterFixture()
	filters := []common.Filter{{ID: "cc/approved"}}
	kept, _, _ := ApplyFilters(filters, nil, original)
	assertKept(t, kept, "r1", "r3")

	kept, _, _ = ApplyFilters(nil, nil, original)
	assertKept(t, kept, "r1", "r2", "r3")
}

func TestCountTags(t *testing.T) {
	entries := filterFixture()
	counts, negated := CountTags(entries, nil)
	if len(negated) != 0 {
		t.Fatalf("got %d negated counts, want none", len(negated))
	}
	want := map[string]int{
		"cc/approved":     2,
		"cc/experimental": 1,
		"ara/aragorn":     2,
		"ara/bte":         1,
	}
	for id, n := range want {
		if counts[id] != n {
			t.Fatalf("count for %s = %d, want %d", id, counts[id], n)
		}
	}
}

func TestCountTagsOneMissingFamilyLeniency(t *testing.T) {
	entries := filterFixture()
	filters := []common.Filter{{ID: "cc/approved"}}
	counts, _ := CountTags(entries, filters)

	// r2 misses only the cc family, so it still contributes its cc tag but
	// not its ara tag.
	if counts["cc/experimental"] != 1 {
		t.Fatalf("count for cc/experimental = %d, want 1", counts["cc/experimental"])
	}
	if counts["ara/aragorn"] != 1 {
		t.Fatalf("count for ara/aragorn = %d, want 1 (r1 only)", counts["ara/aragorn"])
	}
}

func TestCountTagsTwoMissingFamiliesContributeNothing(t *testing.T) {
	entries := []*Entry{
		filterEntry("r1", "Aspirin", []string{"cc/approved", "ara/aragorn"}),
		filterEntry("r2", "Metformin", []string{"cc/experimental", "ara/bte", "otc/yes"}),
	}
	filters := []common.Filter{{ID: "cc/approved"}, {ID: "ara/aragorn"}}
	counts, _ := CountTags(entries, filters)
	if counts["otc/yes"] != 0 {
		t.Fatalf("r2 misses two families but still contributed otc/yes")
	}
	if counts["cc/approved"] != 1 || counts["ara/aragorn"] != 1 {
		t.Fatalf("r1 tags miscounted: %v", counts)
	}
}

func TestCountTagsNegatedPool(t *testing.T) {
	entries := filterFixture()
	filters := []common.Filter{{ID: "cc/approved", Negated: true}}
	counts, negated := CountTags(entries, filters)
	if negated["cc/approved"] != 2 {
		t.Fatalf("negated count for cc/approved = %d, want 2", negated["cc/approved"])
	}
	if counts["cc/approved"] != 0 {
		t.Fatalf("negated tag leaked into the regular counts: %v", counts)
	}
}
