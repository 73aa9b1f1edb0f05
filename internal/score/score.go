// Package score assigns each posting a relevance score in [0, 100]
// against its originating search term.
package score

import (
	"sort"
	"strings"
	"time"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
)

// Scorer computes deterministic relevance scores. Title matches carry the
// most weight, description matches less, and recency decays linearly
// across the search time window.
type Scorer struct {
	weights config.ScoringConfig
	window  time.Duration
	now     func() time.Time
}

func New(weights config.ScoringConfig, window time.Duration) *Scorer {
	return &Scorer{
		weights: weights,
		window:  window,
		now:     time.Now,
	}
}

// Score computes the relevance of a single posting.
func (s *Scorer) Score(p *models.JobPosting) float64 {
	term := strings.ToLower(strings.TrimSpace(p.Term))
	if term == "" {
		return 50
	}

	title := strings.ToLower(p.Title)
	description := strings.ToLower(p.Description)

	var score float64

	if strings.Contains(title, term) {
		score += s.weights.TitleExactWeight
	}

	termWords := strings.Fields(term)
	titleWords := wordSet(title)
	matched := 0
	for _, w := range termWords {
		if titleWords[w] {
			matched++
		}
	}
	if len(termWords) > 0 {
		score += float64(matched) / float64(len(termWords)) * s.weights.TitlePartialWeight
	}

	descMatched := 0
	for _, w := range termWords {
		if strings.Contains(description, w) {
			descMatched++
		}
	}
	if len(termWords) > 0 {
		score += float64(descMatched) / float64(len(termWords)) * s.weights.DescriptionWeight
	}

	score += s.recency(p.DiscoveredAt) * s.weights.RecencyWeight

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// recency returns 1.0 for a just-discovered posting, decaying linearly to
// 0 at the far edge of the time window.
func (s *Scorer) recency(discoveredAt time.Time) float64 {
	if discoveredAt.IsZero() || s.window <= 0 {
		return 0
	}
	age := s.now().Sub(discoveredAt)
	if age < 0 {
		age = 0
	}
	if age >= s.window {
		return 0
	}
	return 1 - float64(age)/float64(s.window)
}

// Rank scores all postings and sorts them by score descending, ties
// broken by discovered-at descending. The input slice is not modified.
func (s *Scorer) Rank(postings []models.JobPosting) []models.JobPosting {
	ranked := make([]models.JobPosting, len(postings))
	copy(ranked, postings)

	for i := range ranked {
		ranked[i].Score = s.Score(&ranked[i])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DiscoveredAt.After(ranked[j].DiscoveredAt)
	})
	return ranked
}

func wordSet(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		words[strings.Trim(w, ".,;:()[]")] = true
	}
	return words
}
