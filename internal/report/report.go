// Package report renders the scored posting collection into Markdown and
// PDF files under the reports directory.
package report

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
)

// RenderError reports a failed render for one output format. Other
// requested formats still attempt to render.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SiteGroup is one site's postings, sorted by score descending.
type SiteGroup struct {
	Site         string
	Postings     []models.JobPosting
	AverageScore float64
}

// SalaryStats summarizes parsed salary figures across postings.
type SalaryStats struct {
	WithSalary int
	Minimum    float64
	Maximum    float64
	Average    float64
}

// Report is the assembled, render-ready view of a run's results.
type Report struct {
	RunID           string
	Terms           []string
	GeneratedAt     time.Time
	Groups          []SiteGroup
	TotalJobs       int
	UniqueCompanies int
	AverageScore    float64
	SalaryStats     *SalaryStats
}

// Generator renders reports in the configured formats. Rendering is pure
// over the posting collection; the only side effect is writing to the
// output directory.
type Generator struct {
	outputDir        string
	formats          []string
	includeSummaries bool
	logger           *log.Logger
	now              func() time.Time
}

func NewGenerator(cfg config.OutputConfig, logger *log.Logger) *Generator {
	var formats []string
	switch cfg.Format {
	case "both":
		formats = []string{"markdown", "pdf"}
	default:
		formats = []string{cfg.Format}
	}
	return &Generator{
		outputDir:        cfg.OutputDir,
		formats:          formats,
		includeSummaries: cfg.IncludeSummaries,
		logger:           logger,
		now:              time.Now,
	}
}

// Generate renders the postings into every configured format. It returns
// the written file path per format and a RenderError per failed format.
func (g *Generator) Generate(runID string, postings []models.JobPosting, terms []string) (map[string]string, []*RenderError) {
	report := g.assemble(runID, postings, terms)
	base := g.filenameBase(terms)

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		errs := make([]*RenderError, 0, len(g.formats))
		for _, f := range g.formats {
			errs = append(errs, &RenderError{Format: f, Err: err})
		}
		return nil, errs
	}

	paths := make(map[string]string)
	var errs []*RenderError

	for _, format := range g.formats {
		var path string
		var err error
		switch format {
		case "markdown":
			path = filepath.Join(g.outputDir, base+".md")
			err = writeAtomic(path, func(w io.Writer) error {
				return renderMarkdown(w, report, g.includeSummaries)
			})
		case "pdf":
			path = filepath.Join(g.outputDir, base+".pdf")
			err = writeAtomic(path, func(w io.Writer) error {
				return renderPDF(w, report, g.includeSummaries)
			})
		default:
			err = fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			errs = append(errs, &RenderError{Format: format, Err: err})
			continue
		}
		paths[format] = path
		g.logger.Printf("%s report written: %s", format, path)
	}
	return paths, errs
}

// assemble groups postings by source site (largest group first) and sorts
// within each group by score descending, ties by discovered-at descending.
func (g *Generator) assemble(runID string, postings []models.JobPosting, terms []string) *Report {
	bySite := make(map[string][]models.JobPosting)
	for _, p := range postings {
		bySite[p.Site.Domain] = append(bySite[p.Site.Domain], p)
	}

	groups := make([]SiteGroup, 0, len(bySite))
	for site, sitePostings := range bySite {
		sort.SliceStable(sitePostings, func(i, j int) bool {
			if sitePostings[i].Score != sitePostings[j].Score {
				return sitePostings[i].Score > sitePostings[j].Score
			}
			return sitePostings[i].DiscoveredAt.After(sitePostings[j].DiscoveredAt)
		})
		var sum float64
		for _, p := range sitePostings {
			sum += p.Score
		}
		groups = append(groups, SiteGroup{
			Site:         site,
			Postings:     sitePostings,
			AverageScore: sum / float64(len(sitePostings)),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Postings) != len(groups[j].Postings) {
			return len(groups[i].Postings) > len(groups[j].Postings)
		}
		return groups[i].Site < groups[j].Site
	})

	companies := mapset.NewSet[string]()
	var scoreSum float64
	for _, p := range postings {
		if p.Company != "" {
			companies.Add(strings.ToLower(p.Company))
		}
		scoreSum += p.Score
	}
	avgScore := 0.0
	if len(postings) > 0 {
		avgScore = scoreSum / float64(len(postings))
	}

	return &Report{
		RunID:           runID,
		Terms:           terms,
		GeneratedAt:     g.now(),
		Groups:          groups,
		TotalJobs:       len(postings),
		UniqueCompanies: companies.Cardinality(),
		AverageScore:    avgScore,
		SalaryStats:     salaryStats(postings),
	}
}

func salaryStats(postings []models.JobPosting) *SalaryStats {
	var midpoints []float64
	for _, p := range postings {
		if p.HasParsedSalary() {
			midpoints = append(midpoints, float64(p.SalaryMin+p.SalaryMax)/2)
		}
	}
	if len(midpoints) == 0 {
		return nil
	}

	stats := &SalaryStats{
		WithSalary: len(midpoints),
		Minimum:    midpoints[0],
		Maximum:    midpoints[0],
	}
	var sum float64
	for _, m := range midpoints {
		if m < stats.Minimum {
			stats.Minimum = m
		}
		if m > stats.Maximum {
			stats.Maximum = m
		}
		sum += m
	}
	stats.Average = sum / float64(len(midpoints))
	return stats
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// filenameBase produces job_search_<timestamp>_<sanitized-terms>. Other
// tooling relies on this naming, so keep it stable.
func (g *Generator) filenameBase(terms []string) string {
	timestamp := g.now().Format("20060102_150405")
	joined := strings.Join(terms, "_")
	sanitized := filenameSanitizer.ReplaceAllString(joined, "_")
	sanitized = strings.Trim(sanitized, "_")
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("job_search_%s_%s", timestamp, sanitized)
}

// writeAtomic renders into a temp file and renames it into place, so a
// failed or cancelled render never leaves a partial report behind.
func writeAtomic(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
