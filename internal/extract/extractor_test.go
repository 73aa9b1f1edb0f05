package extract

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
	"job-search-go/pkg/httpclient"
)

const greenhousePage = `<html><head>
<meta property="article:published_time" content="2026-08-20T10:00:00Z">
</head><body>
<span class="company-name">Acme Corp</span>
<div class="location">Remote, US</div>
<div id="content">We are seeking a senior data scientist for a fully remote role.
Salary range $120,000 - $160,000 per year. Requirements: Python, SQL, 5 years experience.</div>
</body></html>`

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Search.RequestDelaySecs = 0
	cfg.Search.PageRatePerMinute = 600
	ex := NewExtractor(cfg, httpclient.New(cfg.Search.RequestTimeout()), log.New(io.Discard, "", 0))
	t.Cleanup(ex.Stop)
	return ex
}

func TestExtractGreenhousePosting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(greenhousePage))
	}))
	defer server.Close()

	ex := newTestExtractor(t)
	raw := []models.RawResult{{
		URL:   server.URL + "/acme/jobs/123",
		Title: "Senior Data Scientist - Acme Corp",
		Site:  models.SiteSpec{Domain: "greenhouse.io", Category: models.CategoryATS},
		Term:  "data scientist",
	}}

	postings, errs := ex.Extract(context.Background(), raw)
	require.Empty(t, errs)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "Acme Corp", p.Company)
	assert.Equal(t, "Remote, US", p.Location)
	assert.Equal(t, 120000, p.SalaryMin)
	assert.Equal(t, 160000, p.SalaryMax)
	assert.NotEmpty(t, p.Salary)
	assert.Contains(t, p.Description, "senior data scientist")
	assert.NotEmpty(t, p.Summary)
	assert.Equal(t, "data scientist", p.Term)
	assert.False(t, p.DiscoveredAt.IsZero())
}

func TestExtractMissingFieldsTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><main>A remote role with no company markup anywhere obvious here.</main></body></html>`))
	}))
	defer server.Close()

	ex := newTestExtractor(t)
	raw := []models.RawResult{{
		URL:   server.URL + "/jobs/1",
		Title: "Mystery Role",
		Site:  models.SiteSpec{Domain: "example.com", Category: models.CategoryBoard},
		Term:  "engineer",
	}}

	postings, errs := ex.Extract(context.Background(), raw)
	require.Empty(t, errs)
	require.Len(t, postings, 1)
	assert.Empty(t, postings[0].Salary)
	assert.Zero(t, postings[0].SalaryMin)
	assert.NotEmpty(t, postings[0].Description)
}

func TestExtractFailuresDoNotAbortBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(greenhousePage))
	}))
	defer server.Close()

	ex := newTestExtractor(t)
	raw := []models.RawResult{
		{URL: server.URL + "/bad", Title: "Gone", Site: models.SiteSpec{Domain: "greenhouse.io"}, Term: "x"},
		{URL: server.URL + "/good", Title: "Live", Site: models.SiteSpec{Domain: "greenhouse.io"}, Term: "x"},
	}

	postings, errs := ex.Extract(context.Background(), raw)
	require.Len(t, postings, 1)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].URL, "/bad")
}

func TestExtractCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(greenhousePage))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := newTestExtractor(t)
	raw := []models.RawResult{{URL: server.URL, Title: "t", Site: models.SiteSpec{Domain: "x.com"}, Term: "x"}}

	postings, errs := ex.Extract(ctx, raw)
	assert.Empty(t, postings)
	assert.Len(t, errs, 1)
}
