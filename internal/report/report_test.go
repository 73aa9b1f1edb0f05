package report

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
)

var reportNow = time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, format string) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	g := NewGenerator(config.OutputConfig{
		Format:           format,
		OutputDir:        dir,
		IncludeSummaries: true,
	}, log.New(io.Discard, "", 0))
	g.now = func() time.Time { return reportNow }
	return g, dir
}

func samplePostings() []models.JobPosting {
	return []models.JobPosting{
		{
			Title:        "Senior Data Scientist",
			Company:      "Acme Corp",
			Location:     "Remote, US",
			Salary:       "$120,000 - $160,000",
			SalaryMin:    120000,
			SalaryMax:    160000,
			Summary:      "Build ML pipelines for a fully remote team.",
			Requirements: "Python; SQL; 5 years experience",
			Site:         models.SiteSpec{Domain: "greenhouse.io"},
			URL:          "https://boards.greenhouse.io/acme/jobs/123",
			Term:         "data scientist",
			Score:        85,
		},
		{
			Title:   "Data Scientist",
			Company: "Globex",
			Site:    models.SiteSpec{Domain: "greenhouse.io"},
			URL:     "https://boards.greenhouse.io/globex/jobs/7",
			Term:    "data scientist",
			Score:   60,
		},
		{
			Title:   "ML Engineer",
			Company: "Initech",
			Site:    models.SiteSpec{Domain: "lever.co"},
			URL:     "https://jobs.lever.co/initech/ml-1",
			Term:    "data scientist",
			Score:   55,
		},
	}
}

func TestGenerateMarkdown(t *testing.T) {
	g, dir := newTestGenerator(t, "markdown")

	paths, errs := g.Generate("run-1", samplePostings(), []string{"data scientist"})
	require.Empty(t, errs)
	require.Contains(t, paths, "markdown")

	content, err := os.ReadFile(paths["markdown"])
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "# Remote Job Search Report")
	assert.Contains(t, text, "**Total Jobs:** 3")
	assert.Contains(t, text, "**Unique Companies:** 3")
	assert.Contains(t, text, "## greenhouse.io (2 jobs)")
	assert.Contains(t, text, "[Apply Here](https://boards.greenhouse.io/acme/jobs/123)")
	assert.Contains(t, text, "**Salary:** $120,000 - $160,000")
	assert.Contains(t, text, "**Summary:** Build ML pipelines")

	// Largest site group renders first.
	assert.Less(t, strings.Index(text, "## greenhouse.io"), strings.Index(text, "## lever.co"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp or partial files may remain")
}

func TestGeneratePDF(t *testing.T) {
	g, _ := newTestGenerator(t, "pdf")

	paths, errs := g.Generate("run-1", samplePostings(), []string{"data scientist"})
	require.Empty(t, errs)
	require.Contains(t, paths, "pdf")

	info, err := os.Stat(paths["pdf"])
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500), "PDF output should not be empty")
}

func TestGenerateBothFormats(t *testing.T) {
	g, _ := newTestGenerator(t, "both")

	paths, errs := g.Generate("run-1", samplePostings(), []string{"data scientist"})
	require.Empty(t, errs)
	assert.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths["markdown"], ".md"))
	assert.True(t, strings.HasSuffix(paths["pdf"], ".pdf"))
}

func TestFilenameContract(t *testing.T) {
	g, _ := newTestGenerator(t, "markdown")

	base := g.filenameBase([]string{"data scientist", "ML engineer!"})
	assert.Regexp(t, regexp.MustCompile(`^job_search_\d{8}_\d{6}_[a-zA-Z0-9_]+$`), base)
	assert.Contains(t, base, "data_scientist_ML_engineer")

	long := g.filenameBase([]string{strings.Repeat("verylongterm ", 10)})
	assert.LessOrEqual(t, len(strings.TrimPrefix(long, "job_search_20260820_093000_")), 50)
}

func TestGenerateEmptyResults(t *testing.T) {
	g, _ := newTestGenerator(t, "markdown")

	paths, errs := g.Generate("run-1", nil, []string{"data scientist"})
	require.Empty(t, errs)

	content, err := os.ReadFile(paths["markdown"])
	require.NoError(t, err)
	assert.Contains(t, string(content), "No jobs found matching the search criteria.")
}

func TestGenerateUnwritableDirectory(t *testing.T) {
	g, dir := newTestGenerator(t, "both")

	// Point the output directory at a regular file so MkdirAll fails.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	g.outputDir = blocker

	paths, errs := g.Generate("run-1", samplePostings(), []string{"sre"})
	assert.Empty(t, paths)
	require.Len(t, errs, 2)
	for _, re := range errs {
		assert.Error(t, re)
		assert.NotEmpty(t, re.Format)
	}
}

func TestSalaryStats(t *testing.T) {
	stats := salaryStats(samplePostings())
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.WithSalary)
	assert.Equal(t, 140000.0, stats.Average)

	assert.Nil(t, salaryStats(nil))
}

func TestAssembleGroupOrdering(t *testing.T) {
	g, _ := newTestGenerator(t, "markdown")

	r := g.assemble("run-1", samplePostings(), []string{"data scientist"})
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "greenhouse.io", r.Groups[0].Site)
	assert.Equal(t, "lever.co", r.Groups[1].Site)

	// Within a group, higher scores come first.
	first := r.Groups[0].Postings
	assert.Equal(t, "Senior Data Scientist", first[0].Title)
}
