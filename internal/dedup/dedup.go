// Package dedup collapses postings that describe the same underlying job
// across sources into a canonical set keyed by a normalized identity.
package dedup

import (
	"crypto/md5"
	"fmt"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"job-search-go/internal/models"
)

// foldTransformer strips diacritics so "Zürich" and "Zurich" produce the
// same canonical key.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalID derives the stable posting identity from normalized
// company, title, and location. Two postings with the same ID are the
// same job, regardless of which site surfaced them.
func CanonicalID(company, title, location string) string {
	key := normalizeField(company) + "|" + normalizeField(title) + "|" + normalizeField(location)
	hash := md5.Sum([]byte(key))
	return fmt.Sprintf("%x", hash)
}

func normalizeField(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Deduplicator retains one representative per canonical ID.
type Deduplicator struct {
	ids mapset.Set[string]
}

func New() *Deduplicator {
	return &Deduplicator{
		ids: mapset.NewSet[string](),
	}
}

// Collapse returns one representative per canonical ID, in first-seen
// order. The representative preference is: non-empty salary field, then
// longer description, then first seen. Collapse is idempotent.
func (d *Deduplicator) Collapse(postings []models.JobPosting) []models.JobPosting {
	byID := make(map[string]int, len(postings))
	var unique []models.JobPosting

	for _, p := range postings {
		p.ID = CanonicalID(p.Company, p.Title, p.Location)
		d.ids.Add(p.ID)

		idx, seen := byID[p.ID]
		if !seen {
			byID[p.ID] = len(unique)
			unique = append(unique, p)
			continue
		}
		if preferable(&p, &unique[idx]) {
			unique[idx] = p
		}
	}
	return unique
}

// UniqueSeen returns how many distinct canonical IDs have passed through.
func (d *Deduplicator) UniqueSeen() int {
	return d.ids.Cardinality()
}

// preferable reports whether candidate should replace the current
// representative for the same canonical ID.
func preferable(candidate, current *models.JobPosting) bool {
	candidateSalary := candidate.Salary != ""
	currentSalary := current.Salary != ""
	if candidateSalary != currentSalary {
		return candidateSalary
	}
	// Equal salary presence: keep the richer description. On a tie the
	// first-seen posting wins.
	return len(candidate.Description) > len(current.Description)
}
