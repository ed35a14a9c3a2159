package results

import (
	"testing"

	"translator/pkg/common"
)

func testResultSet() *common.ResultSet {
	return &common.ResultSet{
		Status: common.StatusSuccess,
		Data: common.ResultSetData{
			Nodes: map[string]common.Node{
				"CHEBI:15365": {
					Names:        []string{"Aspirin"},
					Types:        []string{"biolink:SmallMolecule"},
					Descriptions: []string{"A salicylate drug."},
					CURIEs:       []string{"CHEBI:15365", "DRUGBANK:DB00945"},
				},
				"MONDO:0005277": {
					Names: []string{"Migraine Disorder"},
					Types: []string{"biolink:Disease"},
				},
				"GO:0006954": {
					Names: []string{"Aspirin-related pathway"},
					Types: []string{"biolink:BiologicalProcess"},
				},
			},
			Edges: map[string]common.Edge{
				"e01": {
					Subject:        "CHEBI:15365",
					Object:         "MONDO:0005277",
					Predicate:      "treats",
					KnowledgeLevel: "trusted",
					Provenance: []common.Provenance{
						{Name: "infores:drugbank", URL: "https://drugbank.ca"},
					},
					Publications: map[string][]string{
						"trusted": {"PMID:100", "PMID:100", "NCT00000100"},
					},
				},
				"e02": {
					Subject:        "CHEBI:15365",
					Object:         "MONDO:0005277",
					Predicate:      "applied to treat",
					KnowledgeLevel: "inferred",
					Support:        []string{"p-support"},
				},
				"e03": {
					Subject:        "CHEBI:15365",
					Object:         "GO:0006954",
					Predicate:      "participates in",
					KnowledgeLevel: "trusted",
					Provenance: []common.Provenance{
						{Name: "infores:go-cam"},
					},
					Publications: map[string][]string{
						"trusted": {"PMID:200"},
					},
				},
			},
			Paths: map[string]common.Path{
				"p-direct": {
					Subgraph: []string{"CHEBI:15365", "e01", "MONDO:0005277"},
					Tags:     map[string]common.Tag{"pt/direct": {Name: "Direct"}},
				},
				"p-inferred": {
					Subgraph: []string{"CHEBI:15365", "e02", "MONDO:0005277"},
				},
				"p-support": {
					Subgraph: []string{"CHEBI:15365", "e03", "GO:0006954"},
				},
			},
			Results: []common.Result{
				{
					ID:      "r1",
					Subject: "CHEBI:15365",
					Object:  "MONDO:0005277",
					Paths:   []string{"p-direct", "p-inferred"},
					Scores: []common.ScoreComponents{
						{Confidence: 0.8, Novelty: 0.2, ClinicalEvidence: 0.5, NormalizedScore: 80},
					},
					Tags: map[string]common.Tag{
						"cc/approved": {Name: "Approved Drug"},
						"ara/aragorn": {Name: "ARAGORN"},
					},
				},
			},
			Tags: map[string]common.Tag{
				"cc/approved": {Name: "Approved Drug"},
				"ara/aragorn": {Name: "ARAGORN"},
				"pt/direct":   {Name: "Direct"},
			},
			Meta: common.Meta{ARAs: []string{"aragorn"}},
		},
	}
}

func TestFormatPaths(t *testing.T) {
	set := testResultSet()
	paths := FormatPaths([]string{"p-direct", "p-inferred"}, set)

	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}

	direct := paths[0]
	if direct.ID != "p-direct" {
		t.Fatalf("got path %q first, want p-direct", direct.ID)
	}
	if len(direct.Nodes) != 2 || len(direct.Edges) != 1 {
		t.Fatalf("got %d nodes and %d edges, want 2 and 1", len(direct.Nodes), len(direct.Edges))
	}
	if direct.Nodes[0].Name != "Aspirin" || direct.Nodes[1].Name != "Migraine Disorder" {
		t.Fatalf("unexpected node names: %q, %q", direct.Nodes[0].Name, direct.Nodes[1].Name)
	}
	if direct.Inferred {
		t.Fatal("direct path marked inferred")
	}
	if want := "Aspirin treats Migraine Disorder"; direct.StringName != want {
		t.Fatalf("got string name %q, want %q", direct.StringName, want)
	}

	pubs := direct.Edges[0].Publications["trusted"]
	if len(pubs) != 2 {
		t.Fatalf("got %d trusted publications, want 2 after dedup: %v", len(pubs), pubs)
	}

	inferred := paths[1]
	if !inferred.Inferred {
		t.Fatal("inferred path not marked inferred")
	}
	support := inferred.Edges[0].Support
	if len(support) != 1 || support[0].ID != "p-support" {
		t.Fatalf("unexpected support paths: %+v", support)
	}
}

func TestFormatPathsSkipsMissingReferences(t *testing.T) {
	set := testResultSet()

	tests := []struct {
		name string
		ids  []string
		want int
	}{
		{name: "unknown path id", ids: []string{"p-direct", "p-nope"}, want: 1},
		{name: "all unknown", ids: []string{"p-nope", "p-other"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPaths(tt.ids, set)
			if len(got) != tt.want {
				t.Fatalf("got %d paths, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFormatPathsSkipsPathWithMissingNode(t *testing.T) {
	set := testResultSet()
	set.Data.Paths["p-broken"] = common.Path{
		Subgraph: []string{"CHEBI:15365", "e01", "MONDO:missing"},
	}

	got := FormatPaths([]string{"p-broken", "p-direct"}, set)
	if len(got) != 1 || got[0].ID != "p-direct" {
		t.Fatalf("broken path not skipped: %+v", got)
	}
}

func TestFormatPathsDoesNotMutateResultSet(t *testing.T) {
	set := testResultSet()
	before := len(set.Data.Edges["e01"].Publications["trusted"])

	FormatPaths([]string{"p-direct"}, set)

	after := len(set.Data.Edges["e01"].Publications["trusted"])
	if before != after {
		t.Fatalf("result set mutated: %d publications before, %d after", before, after)
	}
}

func TestFormatPathsBreaksSupportCycles(t *testing.T) {
	set := testResultSet()
	// e03 supports itself through p-support, closing a cycle.
	edge := set.Data.Edges["e03"]
	edge.Support = []string{"p-support", "p-inferred"}
	set.Data.Edges["e03"] = edge

	paths := FormatPaths([]string{"p-inferred"}, set)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}

	support := paths[0].Edges[0].Support
	if len(support) != 1 || support[0].ID != "p-support" {
		t.Fatalf("unexpected support: %+v", support)
	}
	// The nested support may not contain p-inferred again.
	nested := support[0].Edges[0].Support
	for _, sp := range nested {
		if sp.ID == "p-inferred" || sp.ID == "p-support" {
			t.Fatalf("cycle not broken, %q re-expanded", sp.ID)
		}
	}
}
