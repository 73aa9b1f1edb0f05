package score

import (
	"testing"
	"time"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
)

var testNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	s := New(config.DefaultConfig().Scoring, 24*time.Hour)
	s.now = func() time.Time { return testNow }
	return s
}

func TestScoreExactBeatsPartial(t *testing.T) {
	s := newTestScorer()

	exact := models.JobPosting{
		Term:         "data scientist",
		Title:        "Senior Data Scientist",
		Description:  "data scientist role",
		DiscoveredAt: testNow,
	}
	partial := models.JobPosting{
		Term:         "data scientist",
		Title:        "Data Engineer",
		Description:  "data scientist role",
		DiscoveredAt: testNow,
	}
	unrelated := models.JobPosting{
		Term:         "data scientist",
		Title:        "Office Manager",
		Description:  "front desk duties",
		DiscoveredAt: testNow,
	}

	exactScore := s.Score(&exact)
	partialScore := s.Score(&partial)
	unrelatedScore := s.Score(&unrelated)

	if exactScore <= partialScore {
		t.Errorf("exact title match %f should beat partial %f", exactScore, partialScore)
	}
	if partialScore <= unrelatedScore {
		t.Errorf("partial title match %f should beat unrelated %f", partialScore, unrelatedScore)
	}
}

func TestScoreBounds(t *testing.T) {
	s := newTestScorer()

	best := models.JobPosting{
		Term:         "data scientist",
		Title:        "Data Scientist",
		Description:  "data scientist",
		DiscoveredAt: testNow,
	}
	worst := models.JobPosting{Term: "data scientist", Title: "x", Description: "y"}

	for _, p := range []models.JobPosting{best, worst} {
		got := s.Score(&p)
		if got < 0 || got > 100 {
			t.Errorf("score out of range: %f", got)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScorer()
	p := models.JobPosting{
		Term:         "sre",
		Title:        "Senior SRE",
		Description:  "sre on-call rotation",
		DiscoveredAt: testNow.Add(-6 * time.Hour),
	}

	first := s.Score(&p)
	for i := 0; i < 10; i++ {
		if got := s.Score(&p); got != first {
			t.Fatalf("score changed across calls: %f vs %f", got, first)
		}
	}
}

func TestRecencyDecay(t *testing.T) {
	s := newTestScorer()

	fresh := models.JobPosting{Term: "sre", Title: "SRE", DiscoveredAt: testNow}
	stale := models.JobPosting{Term: "sre", Title: "SRE", DiscoveredAt: testNow.Add(-12 * time.Hour)}
	expired := models.JobPosting{Term: "sre", Title: "SRE", DiscoveredAt: testNow.Add(-48 * time.Hour)}

	freshScore := s.Score(&fresh)
	staleScore := s.Score(&stale)
	expiredScore := s.Score(&expired)

	if freshScore <= staleScore {
		t.Errorf("fresher posting should score higher: %f vs %f", freshScore, staleScore)
	}
	if staleScore <= expiredScore {
		t.Errorf("posting inside the window should beat one outside: %f vs %f", staleScore, expiredScore)
	}
}

func TestScoreUnsetTermIsNeutral(t *testing.T) {
	s := newTestScorer()
	p := models.JobPosting{Title: "Anything"}
	if got := s.Score(&p); got != 50 {
		t.Errorf("postings without a term should score 50, got %f", got)
	}
}

func TestRank(t *testing.T) {
	s := newTestScorer()

	postings := []models.JobPosting{
		{Term: "data scientist", Title: "Office Manager", DiscoveredAt: testNow},
		{Term: "data scientist", Title: "Senior Data Scientist", DiscoveredAt: testNow},
		{Term: "data scientist", Title: "Data Analyst", DiscoveredAt: testNow},
	}

	ranked := s.Rank(postings)

	if ranked[0].Title != "Senior Data Scientist" {
		t.Errorf("best match should rank first, got %q", ranked[0].Title)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("ranking not descending at %d: %f > %f", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
	if postings[0].Score != 0 {
		t.Error("Rank must not mutate its input")
	}
}

func TestRankTieBreakByDiscoveredAt(t *testing.T) {
	s := newTestScorer()

	later := models.JobPosting{Term: "sre", Title: "SRE", URL: "later", DiscoveredAt: testNow.Add(-48 * time.Hour)}
	earlier := models.JobPosting{Term: "sre", Title: "SRE", URL: "earlier", DiscoveredAt: testNow.Add(-49 * time.Hour)}

	// Both are past the recency window, so scores tie exactly.
	ranked := s.Rank([]models.JobPosting{earlier, later})
	if ranked[0].URL != "later" {
		t.Errorf("tie should break toward the later discovery, got %q first", ranked[0].URL)
	}
}
