package results

import (
	"errors"
	"testing"

	"translator/pkg/common"
)

// multiResultSet extends the base fixture with two more subjects so list
// ordering and pagination have something to work with.
func multiResultSet() *common.ResultSet {
	set := testResultSet()
	set.Data.Nodes["CHEBI:5855"] = common.Node{
		Names: []string{"Ibuprofen"},
		Types: []string{"biolink:SmallMolecule"},
	}
	set.Data.Nodes["CHEBI:7476"] = common.Node{
		Names: []string{"Naproxen"},
		Types: []string{"biolink:SmallMolecule"},
	}
	set.Data.Edges["e10"] = common.Edge{
		Subject:        "CHEBI:5855",
		Object:         "MONDO:0005277",
		Predicate:      "treats",
		KnowledgeLevel: "trusted",
	}
	set.Data.Edges["e11"] = common.Edge{
		Subject:        "CHEBI:7476",
		Object:         "MONDO:0005277",
		Predicate:      "treats",
		KnowledgeLevel: "trusted",
	}
	set.Data.Paths["p-ibu"] = common.Path{
		Subgraph: []string{"CHEBI:5855", "e10", "MONDO:0005277"},
	}
	set.Data.Paths["p-nap"] = common.Path{
		Subgraph: []string{"CHEBI:7476", "e11", "MONDO:0005277"},
	}
	set.Data.Results = append(set.Data.Results,
		common.Result{
			ID:      "r2",
			Subject: "CHEBI:5855",
			Object:  "MONDO:0005277",
			Paths:   []string{"p-ibu"},
			Scores: []common.ScoreComponents{
				{Confidence: 0.5, Novelty: 0.1, ClinicalEvidence: 0.3},
			},
			Tags: map[string]common.Tag{"cc/experimental": {Name: "Experimental"}},
		},
		common.Result{
			ID:      "r3",
			Subject: "CHEBI:7476",
			Object:  "MONDO:0005277",
			Paths:   []string{"p-nap"},
			Scores: []common.ScoreComponents{
				{Confidence: 0.3, Novelty: 0.1, ClinicalEvidence: 0.2},
			},
			Tags: map[string]common.Tag{"cc/approved": {Name: "Approved Drug"}},
		},
	)
	return set
}

func TestListApply(t *testing.T) {
	l := NewList("q1")
	if l.HasResults() {
		t.Fatal("empty list reports results")
	}
	if !l.Apply(testResultSet()) {
		t.Fatal("first snapshot not applied")
	}
	if !l.HasResults() {
		t.Fatal("list reports no results after apply")
	}

	view := l.View()
	if view.Total != 1 {
		t.Fatalf("got %d results, want 1", view.Total)
	}
	if view.Results[0].Name != "Aspirin" {
		t.Fatalf("got result name %q, want Aspirin", view.Results[0].Name)
	}
	if view.Status != common.StatusSuccess {
		t.Fatalf("got status %q, want %q", view.Status, common.StatusSuccess)
	}
}

func TestListApplyIdenticalSnapshotIsNoop(t *testing.T) {
	l := NewList("q1")
	if !l.Apply(testResultSet()) {
		t.Fatal("first snapshot not applied")
	}
	if l.Apply(testResultSet()) {
		t.Fatal("deep-equal snapshot applied again")
	}
}

func TestListStashAndRefresh(t *testing.T) {
	l := NewList("q1")
	l.Apply(testResultSet())

	grown := multiResultSet()
	if !l.Stash(grown) {
		t.Fatal("fresh snapshot not stashed")
	}
	if !l.FreshAvailable() {
		t.Fatal("stashed snapshot not reported")
	}
	if got := l.View().Total; got != 1 {
		t.Fatalf("stash changed the visible list: %d results", got)
	}

	if !l.Refresh() {
		t.Fatal("refresh did not apply the stashed snapshot")
	}
	if l.FreshAvailable() {
		t.Fatal("stashed snapshot still reported after refresh")
	}
	if got := l.View().Total; got != 3 {
		t.Fatalf("got %d results after refresh, want 3", got)
	}
}

func TestListStashIdenticalSnapshot(t *testing.T) {
	l := NewList("q1")
	l.Apply(testResultSet())
	if l.Stash(testResultSet()) {
		t.Fatal("snapshot identical to the visible one stashed")
	}
	if l.Refresh() {
		t.Fatal("refresh with nothing stashed reported a change")
	}
}

func TestListFilterToggle(t *testing.T) {
	l := NewList("q1")
	l.Apply(multiResultSet())

	f := common.Filter{ID: "cc/approved"}
	l.HandleFilter(f)
	view := l.View()
	if view.Total != 2 {
		t.Fatalf("got %d results with cc/approved, want 2", view.Total)
	}
	if len(view.Filters) != 1 {
		t.Fatalf("got %d active filters, want 1", len(view.Filters))
	}

	// Toggling the identical filter removes it.
	l.HandleFilter(f)
	view = l.View()
	if view.Total != 3 {
		t.Fatalf("got %d results after removing filter, want 3", view.Total)
	}
	if len(view.Filters) != 0 {
		t.Fatalf("got %d active filters after toggle, want 0", len(view.Filters))
	}
}

func TestListFacetCountsKeepOneFamilyAwayResults(t *testing.T) {
	l := NewList("q1")
	l.Apply(multiResultSet())

	// r2 carries only cc/experimental, so the cc/approved facet removes it
	// from the page. Its cc tag still counts: it misses exactly one active
	// family, and the counts show what switching facets would yield.
	l.HandleFilter(common.Filter{ID: "cc/approved"})
	view := l.View()
	if view.Total != 2 {
		t.Fatalf("got %d results with cc/approved, want 2", view.Total)
	}
	if got := view.FacetCounts["cc/experimental"]; got != 1 {
		t.Fatalf("got %d for cc/experimental, want 1", got)
	}
	if got := view.FacetCounts["cc/approved"]; got != 2 {
		t.Fatalf("got %d for cc/approved, want 2", got)
	}
	if got := view.FacetCounts["ara/aragorn"]; got != 1 {
		t.Fatalf("got %d for ara/aragorn, want 1", got)
	}
}

func TestListEntityFilterTrackedSeparately(t *testing.T) {
	l := NewList("q1")
	l.Apply(multiResultSet())

	l.HandleFilter(common.NewEntityFilter("ibuprofen"))
	view := l.View()
	if len(view.EntityFilters) != 1 || len(view.Filters) != 0 {
		t.Fatalf("got %d entity and %d facet filters, want 1 and 0",
			len(view.EntityFilters), len(view.Filters))
	}
	if view.Total != 1 || view.Results[0].ID != "r2" {
		t.Fatalf("got %v, want only r2", keptIDs(view.Results))
	}

	l.ClearFilters()
	if got := l.View().Total; got != 3 {
		t.Fatalf("got %d results after clearing filters, want 3", got)
	}
}

func TestListSort(t *testing.T) {
	l := NewList("q1")
	l.Apply(multiResultSet())

	l.HandleSort(SortNameLowHigh)
	view := l.View()
	want := []string{"Aspirin", "Ibuprofen", "Naproxen"}
	for i, name := range want {
		if view.Results[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, view.Results[i].Name, name)
		}
	}

	// Invalid keys leave the ordering alone.
	l.HandleSort(SortKey("bogus"))
	if got := l.View().SortKey; got != SortNameLowHigh {
		t.Fatalf("invalid key replaced the sort key: %q", got)
	}
}

func TestListDefaultSortIsScore(t *testing.T) {
	l := NewList("q1")
	l.Apply(multiResultSet())
	view := l.View()
	if view.SortKey != SortScoreHighLow {
		t.Fatalf("got default sort %q, want %q", view.SortKey, SortScoreHighLow)
	}
	// r1 carries the highest confidence and clinical scores.
	if view.Results[0].ID != "r1" {
		t.Fatalf("got %s first, want r1", view.Results[0].ID)
	}
}

func TestListPagination(t *testing.T) {
	l := NewList("q1", WithPageSize(2))
	l.Apply(multiResultSet())

	view := l.View()
	if view.TotalPages != 2 {
		t.Fatalf("got %d pages, want 2", view.TotalPages)
	}
	if len(view.Results) != 2 {
		t.Fatalf("got %d results on page 0, want 2", len(view.Results))
	}

	l.SetPage(1)
	view = l.View()
	if len(view.Results) != 1 {
		t.Fatalf("got %d results on page 1, want 1", len(view.Results))
	}

	l.SetPage(5)
	if got := len(l.View().Results); got != 0 {
		t.Fatalf("got %d results past the end, want 0", got)
	}

	l.SetPageSize(10)
	view = l.View()
	if view.Page != 0 || len(view.Results) != 3 {
		t.Fatalf("page size change: page %d with %d results, want page 0 with 3",
			view.Page, len(view.Results))
	}
}

func TestListFilterResetsPage(t *testing.T) {
	l := NewList("q1", WithPageSize(1))
	l.Apply(multiResultSet())
	l.SetPage(2)
	l.HandleFilter(common.Filter{ID: "cc/approved"})
	if got := l.View().Page; got != 0 {
		t.Fatalf("got page %d after filter change, want 0", got)
	}
}

func TestListSaves(t *testing.T) {
	lookup := func(resultID string) (SaveState, bool) {
		if resultID == "r1" {
			return SaveState{BookmarkID: "bm-1", HasNotes: true}, true
		}
		return SaveState{}, false
	}
	l := NewList("q1", WithSaves(lookup))
	l.Apply(testResultSet())

	entry, err := l.Entry("r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.BookmarkID != "bm-1" || !entry.HasNotes {
		t.Fatalf("save state not applied: %+v", entry)
	}
}

func TestListEvidenceLookups(t *testing.T) {
	l := NewList("q1")
	l.Apply(testResultSet())

	evidence, err := l.Evidence("r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evidence.Length == 0 {
		t.Fatal("result evidence is empty")
	}

	if _, err := l.Evidence("missing"); !errors.Is(err, ErrUnknownResult) {
		t.Fatalf("got %v, want ErrUnknownResult", err)
	}
	if _, err := l.EdgeEvidence("r1", "missing", "e01"); !errors.Is(err, ErrUnknownPath) {
		t.Fatalf("got %v, want ErrUnknownPath", err)
	}
}

func TestListEdgeEvidenceAttributesLaterHops(t *testing.T) {
	set := &common.ResultSet{
		Status: common.StatusSuccess,
		Data: common.ResultSetData{
			Nodes: map[string]common.Node{
				"CHEBI:15365":   {Names: []string{"Aspirin"}, Types: []string{"biolink:SmallMolecule"}},
				"NCBIGene:5743": {Names: []string{"COX-2"}, Types: []string{"biolink:Gene"}},
				"MONDO:0005277": {Names: []string{"Migraine Disorder"}, Types: []string{"biolink:Disease"}},
			},
			Edges: map[string]common.Edge{
				"e20": {
					Subject:        "CHEBI:15365",
					Object:         "NCBIGene:5743",
					Predicate:      "affects",
					KnowledgeLevel: "trusted",
					Provenance:     []common.Provenance{{Name: "infores:drugbank"}},
				},
				"e21": {
					Subject:        "NCBIGene:5743",
					Object:         "MONDO:0005277",
					Predicate:      "contributes to",
					KnowledgeLevel: "trusted",
					Provenance:     []common.Provenance{{Name: "infores:semmeddb"}},
				},
			},
			Paths: map[string]common.Path{
				"p-hops": {
					Subgraph: []string{"CHEBI:15365", "e20", "NCBIGene:5743", "e21", "MONDO:0005277"},
				},
			},
			Results: []common.Result{
				{
					ID:      "r1",
					Subject: "CHEBI:15365",
					Object:  "MONDO:0005277",
					Paths:   []string{"p-hops"},
					Scores: []common.ScoreComponents{
						{Confidence: 0.6, Novelty: 0.2, ClinicalEvidence: 0.4},
					},
				},
			},
		},
	}

	l := NewList("q1")
	l.Apply(set)

	evidence, err := l.EdgeEvidence("r1", "p-hops", "e21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(evidence.Sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(evidence.Sources))
	}
	src := evidence.Sources[0]
	if src.Subject != "COX-2" || src.Object != "Migraine Disorder" {
		t.Fatalf("second hop source attributed to (%q, %q), want (COX-2, Migraine Disorder)",
			src.Subject, src.Object)
	}
	if src.Name != "infores:semmeddb" {
		t.Fatalf("got source %q, want infores:semmeddb", src.Name)
	}
}

func TestListShareLink(t *testing.T) {
	l := NewList("q-123")
	got := l.ShareLink("Aspirin", "CHEBI:15365", "0", "r1")
	want := "results?i=CHEBI%3A15365&l=Aspirin&q=q-123&r=r1&t=0"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
