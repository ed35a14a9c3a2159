// Package results implements the result-shaping pipeline: it turns the raw,
// ID-keyed graph payload of a result set into flattened, deduplicated,
// filterable and sortable view models.
package results

import (
	"strings"

	"translator/pkg/common"
	"translator/pkg/logger"
)

// NodeSnapshot is a resolved node slot of a formatted path.
type NodeSnapshot struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	Description string   `json:"description"`
	CURIEs      []string `json:"curies"`
	Provenance  []string `json:"provenance"`
}

// EdgeSnapshot is one resolved raw edge. A compressed edge slot can carry
// several snapshots when sibling paths were merged.
type EdgeSnapshot struct {
	ID             string              `json:"id"`
	Subject        string              `json:"subject"`
	Object         string              `json:"object"`
	Predicate      string              `json:"predicate"`
	PredicateURL   string              `json:"predicate_url,omitempty"`
	KnowledgeLevel string              `json:"knowledge_level"`
	Provenance     []common.Provenance `json:"provenance"`
	Publications   map[string][]string `json:"publications"`
	Inferred       bool                `json:"inferred"`
}

// EdgeSlot is an edge position of a formatted path. Before compression it
// holds exactly one predicate and one snapshot; compression unions the slots
// of merged sibling paths.
type EdgeSlot struct {
	ID             string              `json:"id"`
	Predicates     []string            `json:"predicates"`
	Edges          []*EdgeSnapshot     `json:"edges"`
	Provenance     []common.Provenance `json:"provenance"`
	Publications   map[string][]string `json:"publications"`
	KnowledgeLevel string              `json:"knowledge_level"`
	Inferred       bool                `json:"inferred"`
	Support        []*PathEntry        `json:"support,omitempty"`
}

// PathEntry is a formatted path: node snapshots interleaved with edge slots
// (len(Nodes) == len(Edges)+1). StringName flattens the path to
// "Node predicate Node ... Node" for fast text comparison; Inferred is true
// if any edge in the path, directly or via support, is inferred.
type PathEntry struct {
	ID         string                `json:"id"`
	Nodes      []*NodeSnapshot       `json:"nodes"`
	Edges      []*EdgeSlot           `json:"edges"`
	Tags       map[string]common.Tag `json:"tags,omitempty"`
	Inferred   bool                  `json:"inferred"`
	StringName string                `json:"string_name"`
}

// FormatPaths resolves the given raw path IDs against the result set into
// formatted path entries. Missing references are skipped, not fatal. The
// result set is deep-cloned first, so formatting never mutates it. Support
// paths are expanded recursively with a cycle guard: a path ID already on the
// current ancestry stack is not expanded again.
func FormatPaths(rawPathIDs []string, set *common.ResultSet) []*PathEntry {
	if set == nil {
		return nil
	}
	f := &formatter{set: set.Clone()}
	return f.formatPaths(rawPathIDs)
}

type formatter struct {
	set   *common.ResultSet
	stack []string
}

func (f *formatter) formatPaths(ids []string) []*PathEntry {
	var entries []*PathEntry
	for _, id := range ids {
		raw, ok := f.set.Data.Paths[id]
		if !ok {
			logger.Debug("[Results] Skipping unknown path reference", "path_id", id)
			continue
		}
		entry := f.formatPath(id, raw)
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (f *formatter) formatPath(id string, raw common.Path) *PathEntry {
	if len(raw.Subgraph) == 0 || len(raw.Subgraph)%2 == 0 {
		return nil
	}

	f.stack = append(f.stack, id)
	defer func() { f.stack = f.stack[:len(f.stack)-1] }()

	entry := &PathEntry{
		ID:   id,
		Tags: raw.Tags,
	}

	for i, ref := range raw.Subgraph {
		if i%2 == 0 {
			node, ok := f.set.Data.Nodes[ref]
			if !ok {
				logger.Debug("[Results] Skipping path with unknown node", "path_id", id, "node_id", ref)
				return nil
			}
			entry.Nodes = append(entry.Nodes, &NodeSnapshot{
				ID:          ref,
				Name:        node.Name(),
				Types:       node.Types,
				Description: node.Description(),
				CURIEs:      node.CURIEs,
				Provenance:  node.Provenance,
			})
			continue
		}

		edge, ok := f.set.Data.Edges[ref]
		if !ok {
			logger.Debug("[Results] Skipping path with unknown edge", "path_id", id, "edge_id", ref)
			return nil
		}
		slot := f.formatEdge(ref, edge)
		entry.Edges = append(entry.Edges, slot)
		if slot.Inferred {
			entry.Inferred = true
		}
	}

	entry.StringName = pathStringName(entry)
	return entry
}

func (f *formatter) formatEdge(edgeID string, edge common.Edge) *EdgeSlot {
	snapshot := &EdgeSnapshot{
		ID:             edgeID,
		Subject:        edge.Subject,
		Object:         edge.Object,
		Predicate:      edge.Predicate,
		PredicateURL:   edge.PredicateURL,
		KnowledgeLevel: edge.KnowledgeLevel,
		Provenance:     edge.Provenance,
		Publications:   dedupePublications(edge.Publications),
		Inferred:       edge.IsInferred(),
	}

	slot := &EdgeSlot{
		ID:             edgeID,
		Predicates:     []string{edge.Predicate},
		Edges:          []*EdgeSnapshot{snapshot},
		Provenance:     edge.Provenance,
		Publications:   snapshot.Publications,
		KnowledgeLevel: edge.KnowledgeLevel,
		Inferred:       snapshot.Inferred,
	}

	if len(edge.Support) > 0 {
		var supportIDs []string
		for _, sid := range edge.Support {
			if f.onStack(sid) {
				logger.Debug("[Results] Breaking support cycle", "path_id", sid)
				continue
			}
			supportIDs = append(supportIDs, sid)
		}
		slot.Support = f.formatPaths(supportIDs)

		for _, sp := range slot.Support {
			if sp.Inferred {
				slot.Inferred = true
			}
		}
	}

	return slot
}

func (f *formatter) onStack(pathID string) bool {
	for _, id := range f.stack {
		if id == pathID {
			return true
		}
	}
	return false
}

func dedupePublications(pubs map[string][]string) map[string][]string {
	if pubs == nil {
		return nil
	}
	out := make(map[string][]string, len(pubs))
	for level, ids := range pubs {
		seen := make(map[string]struct{}, len(ids))
		var deduped []string
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			deduped = append(deduped, id)
		}
		out[level] = deduped
	}
	return out
}

func pathStringName(entry *PathEntry) string {
	var b strings.Builder
	for i, node := range entry.Nodes {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(node.Name)
		if i < len(entry.Edges) {
			b.WriteString(" ")
			b.WriteString(entry.Edges[i].Predicates[0])
		}
	}
	return b.String()
}
