package results

import (
	"sort"
	"strings"

	"translator/pkg/common"

	"golang.org/x/sync/errgroup"
)

// Entry is one displayed result row: the raw result enriched with its
// formatted and compressed path trees, aggregated evidence counts, the
// computed display score and user-save state.
type Entry struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Subject       *NodeSnapshot         `json:"subject"`
	Object        *NodeSnapshot         `json:"object"`
	Score         ScoreValue            `json:"score"`
	EvidenceCount int                   `json:"evidence_count"`
	PathCount     int                   `json:"path_count"`
	Paths         []*PathEntry          `json:"paths"`
	Tags          map[string]common.Tag `json:"tags"`
	BookmarkID    string                `json:"bookmark_id,omitempty"`
	HasNotes      bool                  `json:"has_notes,omitempty"`
	Raw           *common.Result        `json:"-"`
}

// formatParallelism caps how many results are shaped concurrently.
const formatParallelism = 8

// FormatResults shapes every raw result of the set into a view entry:
// paths are formatted, grouped, compressed with knowledge levels respected,
// and the evidence and score aggregates computed. Results whose paths all
// fail to resolve are dropped.
func FormatResults(set *common.ResultSet, weights ScoreWeights) []*Entry {
	if set == nil {
		return nil
	}

	entries := make([]*Entry, len(set.Data.Results))

	var eg errgroup.Group
	eg.SetLimit(formatParallelism)
	for i := range set.Data.Results {
		i := i
		eg.Go(func() error {
			entries[i] = formatResult(&set.Data.Results[i], set, weights)
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]*Entry, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			out = append(out, entry)
		}
	}
	return out
}

func formatResult(raw *common.Result, set *common.ResultSet, weights ScoreWeights) *Entry {
	paths := FormatPaths(raw.Paths, set)
	if len(paths) == 0 {
		return nil
	}

	groupSiblings(paths)
	paths = CompressPaths(paths, true)
	evidence := FormatEvidence(paths)

	entry := &Entry{
		ID:            raw.ID,
		Score:         Score(raw.Scores, weights),
		EvidenceCount: evidence.Length,
		PathCount:     len(paths),
		Paths:         paths,
		Tags:          raw.Tags,
		Raw:           raw,
	}

	if node, ok := set.Data.Nodes[raw.Subject]; ok {
		entry.Subject = &NodeSnapshot{
			ID:          raw.Subject,
			Name:        node.Name(),
			Types:       node.Types,
			Description: node.Description(),
			CURIEs:      node.CURIEs,
			Provenance:  node.Provenance,
		}
		entry.Name = node.Name()
	}
	if node, ok := set.Data.Nodes[raw.Object]; ok {
		entry.Object = &NodeSnapshot{
			ID:          raw.Object,
			Name:        node.Name(),
			Types:       node.Types,
			Description: node.Description(),
			CURIEs:      node.CURIEs,
			Provenance:  node.Provenance,
		}
	}

	return entry
}

// groupSiblings orders paths so that paths over the same node sequence are
// adjacent, satisfying the compressor's precondition. Ties keep the shorter
// path first.
func groupSiblings(paths []*PathEntry) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := nodeSequenceKey(paths[i]), nodeSequenceKey(paths[j])
		if a != b {
			return a < b
		}
		return len(paths[i].Nodes) < len(paths[j].Nodes)
	})
}

func nodeSequenceKey(path *PathEntry) string {
	ids := make([]string, len(path.Nodes))
	for i, node := range path.Nodes {
		ids[i] = node.ID
	}
	return strings.Join(ids, "|")
}
