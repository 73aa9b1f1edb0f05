// Package pipeline orchestrates the stage-synchronous search flow:
// build queries, execute searches, extract pages, filter, deduplicate,
// score, and render reports. Each stage fully drains its input before
// the next begins; only search and extraction touch the network.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"job-search-go/internal/config"
	"job-search-go/internal/dedup"
	"job-search-go/internal/extract"
	"job-search-go/internal/filter"
	"job-search-go/internal/models"
	"job-search-go/internal/report"
	"job-search-go/internal/score"
	"job-search-go/internal/search"
	"job-search-go/pkg/httpclient"
)

// ErrNoResults is returned when every dispatched query failed, which is
// treated as total search API unavailability.
var ErrNoResults = errors.New("all search queries failed")

// Summary aggregates counts and per-item errors for the whole run. All
// recovered errors surface here rather than being logged silently.
type Summary struct {
	RunID            string
	Terms            []string
	Queries          int
	RawResults       int
	Extracted        int
	Rejected         int
	Duplicates       int
	Final            int
	QuotaUsed        int
	QuotaExhausted   bool
	SearchErrors     []*models.SearchError
	ExtractionErrors []*models.ExtractionError
	RenderErrors     []*report.RenderError
	ReportPaths      map[string]string
	Duration         time.Duration
}

// Pipeline wires the stages together for one run.
type Pipeline struct {
	cfg       *config.Config
	quota     *search.QuotaCounter
	searcher  *search.Client
	extractor *extract.Extractor
	dedup     *dedup.Deduplicator
	scorer    *score.Scorer
	reporter  *report.Generator
	logger    *log.Logger
}

// New builds a pipeline from validated configuration.
func New(cfg *config.Config, logger *log.Logger) *Pipeline {
	hc := httpclient.New(cfg.Search.RequestTimeout())
	quota := search.NewQuotaCounter(cfg.GoogleAPI.DailyQuota)
	return &Pipeline{
		cfg:       cfg,
		quota:     quota,
		searcher:  search.NewClient(cfg, hc, quota, logger),
		extractor: extract.NewExtractor(cfg, hc, logger),
		dedup:     dedup.New(),
		scorer:    score.New(cfg.Scoring, cfg.Search.TimeWindow()),
		reporter:  report.NewGenerator(cfg.Output, logger),
		logger:    logger,
	}
}

// DryRun builds and returns the queries a run would dispatch, without any
// network activity.
func (pl *Pipeline) DryRun(terms []string) ([]models.Query, error) {
	return search.BuildQueries(terms, pl.cfg.Sites.All(), pl.cfg.Search.TimeFilterHours)
}

// Run executes the full pipeline. Configuration errors and total search
// unavailability are fatal; everything else is recorded in the summary
// and the run proceeds with partial results.
func (pl *Pipeline) Run(ctx context.Context, terms []string) (*Summary, error) {
	start := time.Now()
	defer pl.extractor.Stop()

	summary := &Summary{
		RunID: uuid.NewString(),
		Terms: terms,
	}

	queries, err := search.BuildQueries(terms, pl.cfg.Sites.All(), pl.cfg.Search.TimeFilterHours)
	if err != nil {
		return nil, err
	}
	summary.Queries = len(queries)
	pl.logger.Printf("run %s: dispatching %d queries across %d sites",
		summary.RunID, len(queries), len(pl.cfg.Sites.All()))

	rawResults, searchErrs := pl.searcher.Execute(ctx, queries)
	summary.RawResults = len(rawResults)
	summary.SearchErrors = searchErrs
	summary.QuotaUsed = pl.quota.Used()
	summary.QuotaExhausted = quotaHit(searchErrs)

	if err := ctx.Err(); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}
	if len(rawResults) == 0 && len(searchErrs) == len(queries) && !summary.QuotaExhausted {
		summary.Duration = time.Since(start)
		return summary, fmt.Errorf("%w (%d errors)", ErrNoResults, len(searchErrs))
	}

	postings, extractErrs := pl.extractor.Extract(ctx, rawResults)
	summary.Extracted = len(postings)
	summary.ExtractionErrors = extractErrs

	if err := ctx.Err(); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}

	kept, rejected := filter.Apply(postings, pl.cfg.Filters)
	summary.Rejected = rejected
	pl.logger.Printf("filtered %d postings: %d kept, %d rejected", len(postings), len(kept), rejected)

	unique := pl.dedup.Collapse(kept)
	summary.Duplicates = len(kept) - len(unique)

	ranked := pl.scorer.Rank(unique)
	summary.Final = len(ranked)

	// Cancellation must not produce a partial report.
	if err := ctx.Err(); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}

	paths, renderErrs := pl.reporter.Generate(summary.RunID, ranked, terms)
	summary.ReportPaths = paths
	summary.RenderErrors = renderErrs

	summary.Duration = time.Since(start)
	pl.logger.Printf("run %s complete: %d postings, %d duplicates collapsed, %d search errors, %d extraction errors in %v",
		summary.RunID, summary.Final, summary.Duplicates,
		len(summary.SearchErrors), len(summary.ExtractionErrors), summary.Duration)
	return summary, nil
}

// Probe verifies search API credentials with a single request.
func (pl *Pipeline) Probe(ctx context.Context) error {
	return pl.searcher.Probe(ctx)
}

// TestSites runs one minimal query per configured site and reports which
// sites returned anything, for the test-sources command.
func (pl *Pipeline) TestSites(ctx context.Context, term string) map[string]error {
	results := make(map[string]error)
	for _, site := range pl.cfg.Sites.All() {
		queries, err := search.BuildQueries([]string{term}, []models.SiteSpec{site}, pl.cfg.Search.TimeFilterHours)
		if err != nil {
			results[site.Domain] = err
			continue
		}
		_, errs := pl.searcher.Execute(ctx, queries)
		if len(errs) > 0 {
			results[site.Domain] = errs[0]
		} else {
			results[site.Domain] = nil
		}
	}
	return results
}

func quotaHit(errs []*models.SearchError) bool {
	for _, e := range errs {
		if errors.Is(e, models.ErrQuotaExhausted) {
			return true
		}
	}
	return false
}
