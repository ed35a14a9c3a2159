package results

import (
	"sort"

	"translator/pkg/common"
)

// CompressPaths merges adjacent formatted paths whose node sequences are
// identical into a single path whose edge slots union predicates, edge
// snapshots, provenance, publications and support paths. When
// respectKnowledgeLevel is set, paths are only merged if every corresponding
// edge slot shares the same knowledge level. Callers must have grouped
// mergeable siblings next to each other; only adjacent paths are considered.
//
// Compression is a fixed point: compressing an already-compressed list
// returns an equivalent list.
func CompressPaths(paths []*PathEntry, respectKnowledgeLevel bool) []*PathEntry {
	var compressed []*PathEntry

	for i := 0; i < len(paths); i++ {
		current := paths[i]
		for i+1 < len(paths) && mergeable(current, paths[i+1], respectKnowledgeLevel) {
			current = mergePaths(current, paths[i+1])
			i++
		}
		finishPath(current)
		compressed = append(compressed, current)
	}

	return compressed
}

func mergeable(a, b *PathEntry, respectKnowledgeLevel bool) bool {
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		return false
	}
	for i := range a.Nodes {
		if a.Nodes[i].ID != b.Nodes[i].ID {
			return false
		}
	}
	if respectKnowledgeLevel {
		for i := range a.Edges {
			if a.Edges[i].KnowledgeLevel != b.Edges[i].KnowledgeLevel {
				return false
			}
		}
	}
	return true
}

func mergePaths(a, b *PathEntry) *PathEntry {
	merged := &PathEntry{
		ID:         a.ID,
		Nodes:      a.Nodes,
		Tags:       mergeTagMaps(a.Tags, b.Tags),
		Inferred:   a.Inferred || b.Inferred,
		StringName: a.StringName,
	}
	merged.Edges = make([]*EdgeSlot, len(a.Edges))
	for i := range a.Edges {
		merged.Edges[i] = mergeSlots(a.Edges[i], b.Edges[i])
	}
	return merged
}

func mergeSlots(a, b *EdgeSlot) *EdgeSlot {
	merged := &EdgeSlot{
		ID:             a.ID,
		Predicates:     unionStrings(a.Predicates, b.Predicates),
		Edges:          append(append([]*EdgeSnapshot(nil), a.Edges...), b.Edges...),
		KnowledgeLevel: a.KnowledgeLevel,
		Inferred:       a.Inferred || b.Inferred,
		Support:        append(append([]*PathEntry(nil), a.Support...), b.Support...),
	}
	merged.Provenance = append(merged.Provenance, a.Provenance...)
	merged.Provenance = append(merged.Provenance, b.Provenance...)
	merged.Publications = mergePublicationMaps(a.Publications, b.Publications)
	return merged
}

func mergeTagMaps(a, b map[string]common.Tag) map[string]common.Tag {
	if a == nil && b == nil {
		return nil
	}
	out := make(map[string]common.Tag, len(a)+len(b))
	for id, tag := range a {
		out[id] = tag
	}
	for id, tag := range b {
		out[id] = tag
	}
	return out
}

// finishPath stabilizes and recursively compresses the support paths of every
// edge slot. Support lists of one entry still recurse so nested compression
// propagates.
func finishPath(entry *PathEntry) {
	for _, slot := range entry.Edges {
		if len(slot.Support) == 0 {
			continue
		}
		sortSupport(slot.Support)
		slot.Support = CompressPaths(slot.Support, false)
	}
}

// sortSupport orders support paths by string name, lexicographically, with
// nameless paths last.
func sortSupport(support []*PathEntry) {
	sort.SliceStable(support, func(i, j int) bool {
		a, b := support[i].StringName, support[j].StringName
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func mergePublicationMaps(a, b map[string][]string) map[string][]string {
	if a == nil && b == nil {
		return nil
	}
	out := make(map[string][]string, len(a)+len(b))
	for level, ids := range a {
		out[level] = append([]string(nil), ids...)
	}
	for level, ids := range b {
		out[level] = append(out[level], ids...)
	}
	return out
}
