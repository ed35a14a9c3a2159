package results

import "strings"

// Publication types produced by classification. The three types are a total
// partition: every publication ID is exactly one of them.
const (
	PubTypePublication   = "publication"
	PubTypeClinicalTrial = "clinical_trial"
	PubTypeMisc          = "misc"
)

// PublicationEntry is one deduplicated publication of a result's evidence.
type PublicationEntry struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	KnowledgeLevel string `json:"knowledge_level"`
	Source         string `json:"source"`
	URL            string `json:"url"`
}

// SourceEntry is one provenance source of a result's evidence, qualified by
// the subject and object names of the edge it was found on.
type SourceEntry struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Object  string `json:"object"`
}

// Evidence is the aggregated, deduplicated evidence of a single result.
type Evidence struct {
	Publications    map[string]*PublicationEntry `json:"publications"`
	Sources         []SourceEntry                `json:"sources"`
	DistinctSources []SourceEntry                `json:"distinct_sources"`
	Length          int                          `json:"length"`
}

// FormatEvidence walks the compressed paths of a result and aggregates its
// publications and provenance sources. Publications are deduplicated by ID,
// sources by (subject, source, object) triple; DistinctSources further
// reduces to unique source names. Support subgraphs are walked recursively
// since the evidence of an inferred edge lives one level down.
func FormatEvidence(paths []*PathEntry) *Evidence {
	ev := &Evidence{
		Publications: make(map[string]*PublicationEntry),
	}
	sourceSeen := make(map[string]struct{})
	nameSeen := make(map[string]struct{})
	collectEvidence(paths, ev, sourceSeen, nameSeen)
	ev.Length = len(ev.Publications)
	return ev
}

func collectEvidence(paths []*PathEntry, ev *Evidence, sourceSeen, nameSeen map[string]struct{}) {
	for _, path := range paths {
		for i, slot := range path.Edges {
			subjectName := path.Nodes[i].Name
			objectName := path.Nodes[i+1].Name

			for level, ids := range slot.Publications {
				for _, id := range ids {
					if _, ok := ev.Publications[id]; ok {
						continue
					}
					source, url := publicationSource(id)
					ev.Publications[id] = &PublicationEntry{
						ID:             id,
						Type:           ClassifyPublication(id),
						KnowledgeLevel: level,
						Source:         source,
						URL:            url,
					}
				}
			}

			for _, prov := range slot.Provenance {
				key := subjectName + prov.Name + objectName
				if _, ok := sourceSeen[key]; !ok {
					sourceSeen[key] = struct{}{}
					ev.Sources = append(ev.Sources, SourceEntry{
						Subject: subjectName,
						Name:    prov.Name,
						URL:     prov.URL,
						Object:  objectName,
					})
				}
				if _, ok := nameSeen[prov.Name]; !ok {
					nameSeen[prov.Name] = struct{}{}
					ev.DistinctSources = append(ev.DistinctSources, SourceEntry{
						Subject: subjectName,
						Name:    prov.Name,
						URL:     prov.URL,
						Object:  objectName,
					})
				}
			}

			if len(slot.Support) > 0 {
				collectEvidence(slot.Support, ev, sourceSeen, nameSeen)
			}
		}
	}
}

// IsPublication reports whether the publication ID refers to a journal
// article (PubMed or PubMed Central).
func IsPublication(id string) bool {
	return strings.HasPrefix(id, "PMID") || strings.HasPrefix(id, "PMC")
}

// IsClinicalTrial reports whether the publication ID refers to a registered
// clinical trial.
func IsClinicalTrial(id string) bool {
	return strings.HasPrefix(id, "NCT") || strings.Contains(strings.ToLower(id), "clinicaltrials")
}

// ClassifyPublication maps a publication ID to its type. The classification
// is a total partition: publication, clinical trial or misc.
func ClassifyPublication(id string) string {
	switch {
	case IsPublication(id):
		return PubTypePublication
	case IsClinicalTrial(id):
		return PubTypeClinicalTrial
	default:
		return PubTypeMisc
	}
}

// publicationSource derives a source label and URL from the ID prefix.
// Unmatched IDs are treated as raw URLs.
func publicationSource(id string) (string, string) {
	switch {
	case strings.HasPrefix(id, "PMID"):
		num := strings.TrimPrefix(strings.TrimPrefix(id, "PMID"), ":")
		return "PubMed", "https://pubmed.ncbi.nlm.nih.gov/" + num
	case strings.HasPrefix(id, "PMC"):
		ref := strings.TrimPrefix(strings.TrimPrefix(id, "PMC"), ":")
		return "PMC", "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC" + ref + "/"
	case strings.HasPrefix(id, "NCT"):
		return "ClinicalTrials.gov", "https://clinicaltrials.gov/study/" + id
	case strings.Contains(strings.ToLower(id), "clinicaltrials"):
		return "ClinicalTrials.gov", id
	default:
		return "", id
	}
}
