// Package paper holds the domain model for the discovery engine: papers
// resolved from the external metadata source, the citation-neighborhood
// graph built from them, and ranked collaborator suggestions.
package paper

// Paper is a bibliographic record keyed by its external identifier.
// It is created on first successful resolution and immutable afterwards;
// the first entry of Categories is the primary category used for
// relatedness expansion.
type Paper struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Link       string   `json:"link"`
	Categories []string `json:"categories"`
}

// PrimaryCategory returns the first category, or "" when the paper carries
// none. A paper without categories cannot be expanded further.
func (p *Paper) PrimaryCategory() string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[0]
}

// HasAuthor reports whether name appears in the author list. Matching is
// exact string equality; no identity resolution is attempted.
func (p *Paper) HasAuthor(name string) bool {
	for _, a := range p.Authors {
		if a == name {
			return true
		}
	}
	return false
}

// Stub is the abbreviated form of a paper returned by category queries.
// It carries enough to record an edge and schedule the full resolution.
type Stub struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Categories []string `json:"categories"`
}

// Edge is a directed link meaning "Target was discovered while expanding
// Source". Reverse edges are not deduplicated against each other.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the result of one discovery traversal: nodes unique by paper id
// and the discovery edges between them. Node order relative to sibling
// branches is not defined.
type Graph struct {
	Nodes []Paper `json:"nodes"`
	Links []Edge  `json:"links"`
}

// Collaborator is a ranked suggestion derived from related-paper authorship
// and abstract similarity. Score is formatted to two decimal places for the
// API contract; Reason is a fixed human-readable explanation.
type Collaborator struct {
	Name   string `json:"name"`
	Score  string `json:"score"`
	Reason string `json:"reason"`
}
