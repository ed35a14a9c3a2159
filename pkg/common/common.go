package common

// ResultSet is the top-level payload returned by the reasoning API for a
// query. It is replaced wholesale on every successful fetch; everything the
// exploration pipeline shows is derived from it.
//
// A result set contains:
//   - Status: "running", "success" or "error"
//   - Data: the node/edge/path/publication dictionaries, the flat results
//     array referencing them by ID, the master tag list and fetch metadata
type ResultSet struct {
	Status string        `json:"status"`
	Data   ResultSetData `json:"data"`
}

// Result set status values reported by the reasoning API.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// ResultSetData holds the dictionaries and the ranked results of a result set.
// All cross references between results, paths, edges, nodes and publications
// are by opaque string ID into these maps.
type ResultSetData struct {
	Nodes        map[string]Node        `json:"nodes"`
	Edges        map[string]Edge        `json:"edges"`
	Paths        map[string]Path        `json:"paths"`
	Publications map[string]Publication `json:"publications"`
	Results      []Result               `json:"results"`
	Tags         map[string]Tag         `json:"tags"`
	Meta         Meta                   `json:"meta"`
}

// Meta records which reasoning agents have reported into a result set and
// when the snapshot was produced.
type Meta struct {
	ARAs      []string `json:"aras"`
	Timestamp string   `json:"timestamp"`
}

// Node is a biomedical entity identified by a CURIE. Nodes are immutable once
// received; many results and paths reference the same node by ID.
type Node struct {
	Names        []string `json:"names"`
	Types        []string `json:"types"`
	Descriptions []string `json:"descriptions"`
	CURIEs       []string `json:"curies"`
	Provenance   []string `json:"provenance"`
}

// Name returns the primary display name of the node.
func (n Node) Name() string {
	if len(n.Names) == 0 {
		return ""
	}
	return n.Names[0]
}

// Description returns the primary description of the node.
func (n Node) Description() string {
	if len(n.Descriptions) == 0 {
		return ""
	}
	return n.Descriptions[0]
}

// Edge is a directed relationship between two nodes. Publications are keyed
// by knowledge level. An edge with a non-empty Support list is inferred: its
// existence is justified by the listed paths rather than by direct evidence.
type Edge struct {
	Subject        string              `json:"subject"`
	Object         string              `json:"object"`
	Predicate      string              `json:"predicate"`
	PredicateURL   string              `json:"predicate_url,omitempty"`
	KnowledgeLevel string              `json:"knowledge_level"`
	Provenance     []Provenance        `json:"provenance"`
	Publications   map[string][]string `json:"publications"`
	Support        []string            `json:"support,omitempty"`
}

// IsInferred reports whether the edge is backed by support paths instead of
// direct evidence.
func (e Edge) IsInferred() bool {
	return len(e.Support) > 0
}

// Provenance names a knowledge source that asserted an edge.
type Provenance struct {
	Name          string `json:"name"`
	URL           string `json:"url,omitempty"`
	KnowledgeType string `json:"knowledge_type,omitempty"`
}

// Path is an alternating sequence of node and edge IDs
// [node, edge, node, ..., node]. Paths can appear as support of an edge in
// another path, forming a DAG rather than a tree.
type Path struct {
	Subgraph []string       `json:"subgraph"`
	Tags     map[string]Tag `json:"tags,omitempty"`
}

// Publication is a literature or trial reference attached to edges.
type Publication struct {
	ID      string `json:"id"`
	Type    string `json:"type,omitempty"`
	URL     string `json:"url,omitempty"`
	Source  string `json:"source,omitempty"`
	Support string `json:"support,omitempty"`
}

// Result is one ranked answer. Subject and Object are node IDs, Paths are
// path IDs, Scores carries one component set per contributing reasoning
// pipeline and Tags drives facet filtering.
type Result struct {
	ID      string            `json:"id"`
	Subject string            `json:"subject"`
	Object  string            `json:"object"`
	Paths   []string          `json:"paths"`
	Scores  []ScoreComponents `json:"scores"`
	Tags    map[string]Tag    `json:"tags"`
}

// ScoreComponents is one set of normalized sub-scores for a result. Values
// arrive either in [0,1] or [0,100] depending on the reporting agent.
type ScoreComponents struct {
	Confidence       float64 `json:"confidence"`
	Novelty          float64 `json:"novelty"`
	ClinicalEvidence float64 `json:"clinical_evidence"`
	NormalizedScore  float64 `json:"normalized_score"`
}

// Tag is a faceting label. Tag IDs are namespaced with "/", the first
// segment being the tag family (e.g. "cc/chebi_role" belongs to family "cc").
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Count int    `json:"count,omitempty"`
}
