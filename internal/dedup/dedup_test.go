package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-search-go/internal/models"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name string
		a    [3]string
		b    [3]string
		same bool
	}{
		{
			"case and whitespace insensitive",
			[3]string{"Acme Corp", "Senior  Data Scientist", "Remote, US"},
			[3]string{"acme corp", "senior data scientist", "remote, us"},
			true,
		},
		{
			"diacritics folded",
			[3]string{"Büro GmbH", "Engineer", "Zürich"},
			[3]string{"Buro GmbH", "Engineer", "Zurich"},
			true,
		},
		{
			"different title is a different job",
			[3]string{"Acme Corp", "Senior Data Scientist", "Remote, US"},
			[3]string{"Acme Corp", "Staff Data Scientist", "Remote, US"},
			false,
		},
		{
			"different company is a different job",
			[3]string{"Acme Corp", "Senior Data Scientist", "Remote, US"},
			[3]string{"Apex Corp", "Senior Data Scientist", "Remote, US"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idA := CanonicalID(tt.a[0], tt.a[1], tt.a[2])
			idB := CanonicalID(tt.b[0], tt.b[1], tt.b[2])
			if tt.same {
				assert.Equal(t, idA, idB)
			} else {
				assert.NotEqual(t, idA, idB)
			}
		})
	}
}

func TestCollapseAcrossSources(t *testing.T) {
	postings := []models.JobPosting{
		{
			Title:    "Senior Data Scientist",
			Company:  "Acme Corp",
			Location: "Remote, US",
			Site:     models.SiteSpec{Domain: "greenhouse.io"},
		},
		{
			Title:    "Senior Data Scientist",
			Company:  "Acme Corp",
			Location: "Remote, US",
			Salary:   "$120,000 - $160,000",
			Site:     models.SiteSpec{Domain: "lever.co"},
		},
		{
			Title:    "Staff Engineer",
			Company:  "Other Co",
			Location: "Remote",
			Site:     models.SiteSpec{Domain: "lever.co"},
		},
	}

	d := New()
	unique := d.Collapse(postings)

	require.Len(t, unique, 2)
	assert.Equal(t, 2, d.UniqueSeen())

	// The salary-bearing duplicate wins, but keeps first-seen position.
	assert.Equal(t, "Acme Corp", unique[0].Company)
	assert.Equal(t, "lever.co", unique[0].Site.Domain)
	assert.NotEmpty(t, unique[0].Salary)
	assert.NotEmpty(t, unique[0].ID)
	assert.Equal(t, "Other Co", unique[1].Company)
}

func TestCollapseDescriptionTieBreak(t *testing.T) {
	postings := []models.JobPosting{
		{Title: "SRE", Company: "Acme", Location: "Remote", Description: "short"},
		{Title: "SRE", Company: "Acme", Location: "Remote", Description: "a much longer description of the role"},
	}

	unique := New().Collapse(postings)
	require.Len(t, unique, 1)
	assert.Contains(t, unique[0].Description, "much longer")
}

func TestCollapseFirstSeenWinsOnFullTie(t *testing.T) {
	postings := []models.JobPosting{
		{Title: "SRE", Company: "Acme", Location: "Remote", Description: "same", URL: "https://a.example/1"},
		{Title: "SRE", Company: "Acme", Location: "Remote", Description: "same", URL: "https://b.example/2"},
	}

	unique := New().Collapse(postings)
	require.Len(t, unique, 1)
	assert.Equal(t, "https://a.example/1", unique[0].URL)
}

func TestCollapseIdempotent(t *testing.T) {
	postings := []models.JobPosting{
		{Title: "SRE", Company: "Acme", Location: "Remote"},
		{Title: "SRE", Company: "Acme", Location: "Remote"},
		{Title: "DBA", Company: "Acme", Location: "Remote"},
	}

	d := New()
	once := d.Collapse(postings)
	twice := d.Collapse(once)
	assert.Equal(t, once, twice)
}
