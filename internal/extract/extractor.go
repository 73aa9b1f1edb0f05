package extract

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/html"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
	"job-search-go/pkg/httpclient"
)

// Extractor fetches candidate posting pages concurrently and extracts
// structured fields into JobPostings. Field population is best effort:
// a missing company or salary leaves the field unset, while a failed
// fetch drops only that single result.
type Extractor struct {
	client           *httpclient.Client
	limiter          *HostLimiter
	workers          int
	requestDelay     time.Duration
	maxSummaryLength int
	logger           *log.Logger
	now              func() time.Time
}

func NewExtractor(cfg *config.Config, hc *httpclient.Client, logger *log.Logger) *Extractor {
	return &Extractor{
		client:           hc,
		limiter:          NewHostLimiter(cfg.Search.PageRatePerMinute),
		workers:          cfg.Search.ExtractWorkers,
		requestDelay:     cfg.Search.RequestDelay(),
		maxSummaryLength: cfg.Output.MaxSummaryLength,
		logger:           logger,
		now:              time.Now,
	}
}

type extractOutcome struct {
	posting *models.JobPosting
	err     *models.ExtractionError
}

// Extract processes all raw results through a bounded worker pool. Output
// order is not guaranteed. Per-page failures are collected as
// ExtractionErrors and never abort the batch.
func (e *Extractor) Extract(ctx context.Context, results []models.RawResult) ([]models.JobPosting, []*models.ExtractionError) {
	if len(results) == 0 {
		return nil, nil
	}

	workers := e.workers
	if workers <= 0 || workers > len(results) {
		workers = len(results)
	}

	outcomes := make(chan extractOutcome, len(results))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for _, r := range results {
		wg.Add(1)
		go func(r models.RawResult) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				outcomes <- extractOutcome{err: &models.ExtractionError{URL: r.URL, Err: ctx.Err()}}
				return
			}

			posting, err := e.extractOne(ctx, r)
			if err != nil {
				outcomes <- extractOutcome{err: &models.ExtractionError{URL: r.URL, Err: err}}
				return
			}
			outcomes <- extractOutcome{posting: posting}
		}(r)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var postings []models.JobPosting
	var errs []*models.ExtractionError
	for o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
			e.logger.Printf("extraction error: %v", o.err)
			continue
		}
		postings = append(postings, *o.posting)
	}
	return postings, errs
}

// Stop releases the host limiter's tickers.
func (e *Extractor) Stop() {
	e.limiter.Stop()
}

func (e *Extractor) extractOne(ctx context.Context, r models.RawResult) (*models.JobPosting, error) {
	host := urlHost(r.URL)
	if host == "" {
		return nil, fmt.Errorf("invalid URL")
	}

	if err := e.limiter.Wait(ctx, host); err != nil {
		return nil, err
	}
	if e.requestDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.requestDelay):
		}
	}

	resp, err := e.client.Get(ctx, r.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	details := extractDetails(doc, r.Site.Domain)

	description := details.Description
	if description == "" {
		description = CleanText(r.Snippet)
	}

	salaryMin, salaryMax := ParseSalary(details.Salary + " " + description)
	salaryText := CleanText(details.Salary)
	if salaryText == "" && salaryMin > 0 {
		if salaryMin == salaryMax {
			salaryText = fmt.Sprintf("$%d", salaryMin)
		} else {
			salaryText = fmt.Sprintf("$%d - $%d", salaryMin, salaryMax)
		}
	}

	postingDate := r.PostingDate
	if postingDate == "" {
		postingDate = details.PostingDate
	}

	return &models.JobPosting{
		Title:        CleanText(r.Title),
		Company:      CleanText(details.Company),
		Location:     CleanText(details.Location),
		Salary:       salaryText,
		SalaryMin:    salaryMin,
		SalaryMax:    salaryMax,
		Description:  description,
		Summary:      Summarize(description, e.maxSummaryLength),
		Requirements: ExtractRequirements(description),
		Site:         r.Site,
		URL:          r.URL,
		Term:         r.Term,
		PostingDate:  postingDate,
		DiscoveredAt: e.now(),
	}, nil
}

func urlHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
