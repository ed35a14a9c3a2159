package common

// Clone returns a deep copy of the result set. The formatting pipeline works
// on a clone so the raw snapshot stays untouched for deep-equality
// comparisons against later fetches.
func (rs *ResultSet) Clone() *ResultSet {
	if rs == nil {
		return nil
	}
	out := &ResultSet{
		Status: rs.Status,
		Data: ResultSetData{
			Nodes:        make(map[string]Node, len(rs.Data.Nodes)),
			Edges:        make(map[string]Edge, len(rs.Data.Edges)),
			Paths:        make(map[string]Path, len(rs.Data.Paths)),
			Publications: make(map[string]Publication, len(rs.Data.Publications)),
			Results:      make([]Result, len(rs.Data.Results)),
			Tags:         cloneTags(rs.Data.Tags),
			Meta: Meta{
				ARAs:      cloneStrings(rs.Data.Meta.ARAs),
				Timestamp: rs.Data.Meta.Timestamp,
			},
		},
	}

	for id, node := range rs.Data.Nodes {
		out.Data.Nodes[id] = Node{
			Names:        cloneStrings(node.Names),
			Types:        cloneStrings(node.Types),
			Descriptions: cloneStrings(node.Descriptions),
			CURIEs:       cloneStrings(node.CURIEs),
			Provenance:   cloneStrings(node.Provenance),
		}
	}

	for id, edge := range rs.Data.Edges {
		out.Data.Edges[id] = edge.Clone()
	}

	for id, path := range rs.Data.Paths {
		out.Data.Paths[id] = Path{
			Subgraph: cloneStrings(path.Subgraph),
			Tags:     cloneTags(path.Tags),
		}
	}

	for id, pub := range rs.Data.Publications {
		out.Data.Publications[id] = pub
	}

	for i, result := range rs.Data.Results {
		out.Data.Results[i] = Result{
			ID:      result.ID,
			Subject: result.Subject,
			Object:  result.Object,
			Paths:   cloneStrings(result.Paths),
			Scores:  append([]ScoreComponents(nil), result.Scores...),
			Tags:    cloneTags(result.Tags),
		}
	}

	return out
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	out := Edge{
		Subject:        e.Subject,
		Object:         e.Object,
		Predicate:      e.Predicate,
		PredicateURL:   e.PredicateURL,
		KnowledgeLevel: e.KnowledgeLevel,
		Provenance:     append([]Provenance(nil), e.Provenance...),
		Support:        cloneStrings(e.Support),
	}
	if e.Publications != nil {
		out.Publications = make(map[string][]string, len(e.Publications))
		for level, ids := range e.Publications {
			out.Publications[level] = cloneStrings(ids)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneTags(in map[string]Tag) map[string]Tag {
	if in == nil {
		return nil
	}
	out := make(map[string]Tag, len(in))
	for id, tag := range in {
		out[id] = tag
	}
	return out
}
