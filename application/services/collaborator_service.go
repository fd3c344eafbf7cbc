package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"papergraph/domain/paper"
)

// CollaboratorReason is the fixed explanation attached to every suggestion.
const CollaboratorReason = "High similarity in research interests"

// MaxCollaborators caps the ranked suggestion list.
const MaxCollaborators = 5

// CollaboratorService ranks authors of related papers as potential
// collaborators for the subject paper's authors. Similarity between two
// abstracts is the overlap of their distinct vocabularies normalized by
// the geometric mean of the vocabulary sizes - binary term presence, not
// weighted cosine.
type CollaboratorService struct{}

// NewCollaboratorService creates a CollaboratorService.
func NewCollaboratorService() *CollaboratorService {
	return &CollaboratorService{}
}

// RankCollaborators scores every author of the related papers who is not
// already an author of the subject paper. An author appearing on several
// related papers accumulates each paper's similarity; ties keep insertion
// order. Returns at most MaxCollaborators entries, descending by score.
func (s *CollaboratorService) RankCollaborators(subject *paper.Paper, related []paper.Paper) []paper.Collaborator {
	subjectTerms := termSet(subject.Abstract)

	subjectAuthors := make(map[string]struct{}, len(subject.Authors))
	for _, a := range subject.Authors {
		subjectAuthors[a] = struct{}{}
	}

	totals := make(map[string]float64)
	var order []string

	for _, rp := range related {
		sim := similarity(subjectTerms, termSet(rp.Abstract))

		for _, author := range rp.Authors {
			if _, ok := subjectAuthors[author]; ok {
				continue
			}
			if _, seen := totals[author]; !seen {
				order = append(order, author)
			}
			totals[author] += sim
		}
	}

	ranked := make([]paper.Collaborator, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, paper.Collaborator{
			Name:   name,
			Score:  fmt.Sprintf("%.2f", totals[name]),
			Reason: CollaboratorReason,
		})
	}

	// Stable sort preserves insertion order among equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i].Name] > totals[ranked[j].Name]
	})

	if len(ranked) > MaxCollaborators {
		ranked = ranked[:MaxCollaborators]
	}
	return ranked
}

// termSet tokenizes text into its distinct lowercase terms.
func termSet(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		terms[tok] = struct{}{}
	}
	return terms
}

// similarity returns |a ∩ b| / sqrt(|a|*|b|), and 0 when either set is
// empty.
func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	shared := 0
	for term := range small {
		if _, ok := large[term]; ok {
			shared++
		}
	}

	return float64(shared) / math.Sqrt(float64(len(a))*float64(len(b)))
}
