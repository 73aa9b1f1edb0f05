package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
	"job-search-go/pkg/httpclient"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// RetryConfig defines retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// Client executes queries against the Custom Search API with a bounded
// worker pool, per-request pacing, bounded retry, and a shared daily
// quota counter.
type Client struct {
	http         *httpclient.Client
	baseURL      string
	apiKey       string
	engineID     string
	maxResults   int
	workers      int
	requestDelay time.Duration
	retry        RetryConfig
	quota        *QuotaCounter
	logger       *log.Logger
}

// NewClient builds a Client from configuration. A zero worker count means
// one worker per query site, bounded later at dispatch time.
func NewClient(cfg *config.Config, hc *httpclient.Client, quota *QuotaCounter, logger *log.Logger) *Client {
	baseURL := cfg.GoogleAPI.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:         hc,
		baseURL:      baseURL,
		apiKey:       cfg.GoogleAPI.APIKey,
		engineID:     cfg.GoogleAPI.SearchEngineID,
		maxResults:   cfg.Search.MaxResultsPerSite,
		workers:      cfg.Search.SearchWorkers,
		requestDelay: cfg.Search.RequestDelay(),
		retry: RetryConfig{
			MaxRetries:    cfg.Search.RetryAttempts,
			InitialDelay:  cfg.Search.RetryDelay(),
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
		},
		quota:  quota,
		logger: logger,
	}
}

type queryResult struct {
	results []models.RawResult
	err     *models.SearchError
}

// Execute dispatches all queries concurrently and gathers results. Each
// query failure is recorded as a SearchError and the batch continues.
// Quota exhaustion halts further dispatch but keeps collected results.
// No ordering is guaranteed across queries.
func (c *Client) Execute(ctx context.Context, queries []models.Query) ([]models.RawResult, []*models.SearchError) {
	if len(queries) == 0 {
		return nil, nil
	}

	workers := c.workers
	if workers <= 0 || workers > len(queries) {
		workers = len(queries)
	}

	resultsChan := make(chan queryResult, len(queries))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(q models.Query) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				resultsChan <- queryResult{err: &models.SearchError{Query: q, Err: ctx.Err()}}
				return
			}
			if c.quota.Exhausted() {
				resultsChan <- queryResult{err: &models.SearchError{Query: q, Err: models.ErrQuotaExhausted}}
				return
			}

			results, err := c.executeQuery(ctx, q)
			if err != nil {
				resultsChan <- queryResult{err: &models.SearchError{Query: q, Err: err}}
				return
			}
			resultsChan <- queryResult{results: results}
		}(q)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var all []models.RawResult
	var errs []*models.SearchError
	for r := range resultsChan {
		if r.err != nil {
			errs = append(errs, r.err)
			c.logger.Printf("search error: %v", r.err)
			continue
		}
		all = append(all, r.results...)
	}
	return all, errs
}

// executeQuery runs a single query with bounded retry. Quota is consumed
// per HTTP attempt, never past the cap.
func (c *Client) executeQuery(ctx context.Context, q models.Query) ([]models.RawResult, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt)
			c.logger.Printf("retrying %s for %q (attempt %d/%d) after %v",
				q.Site.Domain, q.Term, attempt+1, c.retry.MaxRetries+1, delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if !c.quota.Acquire() {
			return nil, models.ErrQuotaExhausted
		}
		if c.requestDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.requestDelay):
			}
		}

		results, err := c.searchOnce(ctx, q)
		if err == nil {
			return results, nil
		}
		lastErr = err

		// Quota and auth failures will not improve with retries.
		if errors.Is(err, models.ErrQuotaExhausted) || !isTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := time.Duration(float64(c.retry.InitialDelay) * float64(attempt) * c.retry.BackoffFactor)
	if delay > c.retry.MaxDelay {
		delay = c.retry.MaxDelay
	}
	return delay
}

// transientError marks failures worth retrying (network errors, 5xx).
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// googleResponse mirrors the Custom Search API JSON response.
type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title        string        `json:"title"`
	Link         string        `json:"link"`
	Snippet      string        `json:"snippet"`
	FormattedURL string        `json:"formattedUrl"`
	PageMap      googlePageMap `json:"pagemap"`
}

type googlePageMap struct {
	MetaTags []map[string]string `json:"metatags"`
}

func (c *Client) searchOnce(ctx context.Context, q models.Query) ([]models.RawResult, error) {
	num := c.maxResults
	if num > 10 {
		num = 10 // API hard limit per request
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", q.Text)
	params.Set("num", strconv.Itoa(num))
	params.Set("dateRestrict", q.DateRestrict)
	params.Set("sort", "date")
	params.Set("lr", "lang_en")

	resp, err := c.http.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, &transientError{fmt.Errorf("http GET: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{fmt.Errorf("read body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, models.ErrQuotaExhausted
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("search API access denied (check API key and engine ID): %s", string(body))
	case resp.StatusCode >= 500:
		return nil, &transientError{fmt.Errorf("search API returned %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp googleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	results := make([]models.RawResult, 0, len(apiResp.Items))
	for _, item := range apiResp.Items {
		if !IsJobURL(item.Link) && !IsJobURL(item.FormattedURL) {
			continue
		}
		results = append(results, models.RawResult{
			URL:         item.Link,
			Title:       item.Title,
			Snippet:     item.Snippet,
			Site:        q.Site,
			Term:        q.Term,
			PostingDate: postingDate(item.PageMap),
		})
	}

	c.logger.Printf("search %s for %q: %d hits, %d kept",
		q.Site.Domain, q.Term, len(apiResp.Items), len(results))
	return results, nil
}

// postingDate pulls a published timestamp out of page metadata when the
// search engine surfaced one.
func postingDate(pm googlePageMap) string {
	for _, meta := range pm.MetaTags {
		if v := meta["article:published_time"]; v != "" {
			return v
		}
		if v := meta["datePublished"]; v != "" {
			return v
		}
	}
	return ""
}

// Probe issues a single minimal request to verify credentials. Used by
// the validate-api command; it consumes one quota unit.
func (c *Client) Probe(ctx context.Context) error {
	if !c.quota.Acquire() {
		return models.ErrQuotaExhausted
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", "software engineer")
	params.Set("num", "1")

	resp, err := c.http.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return fmt.Errorf("search API unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return models.ErrQuotaExhausted
	case http.StatusForbidden:
		return fmt.Errorf("search API access denied: check API key and search engine ID")
	default:
		return fmt.Errorf("search API returned %d", resp.StatusCode)
	}
}
