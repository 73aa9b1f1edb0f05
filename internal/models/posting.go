package models

import "time"

// SiteCategory distinguishes ATS platforms from general job boards.
type SiteCategory string

const (
	CategoryATS   SiteCategory = "ats"
	CategoryBoard SiteCategory = "board"
)

// SiteSpec identifies a job site that searches are scoped to.
type SiteSpec struct {
	Domain   string       `json:"domain"`
	Category SiteCategory `json:"category"`
}

// Query is a single outbound search request, one per (term, site) pair.
type Query struct {
	Term         string   `json:"term"`
	Site         SiteSpec `json:"site"`
	Text         string   `json:"text"`
	DateRestrict string   `json:"date_restrict"`
}

// RawResult is a single search-engine hit before page extraction.
type RawResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Snippet     string   `json:"snippet"`
	Site        SiteSpec `json:"site"`
	Term        string   `json:"term"`
	PostingDate string   `json:"posting_date,omitempty"`
}

// JobPosting is the canonical record flowing through the pipeline.
// The ID is derived from normalized company+title+location so the same
// job surfaced by different sites collapses to one record.
type JobPosting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company,omitempty"`
	Location     string    `json:"location,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	SalaryMin    int       `json:"salary_min,omitempty"`
	SalaryMax    int       `json:"salary_max,omitempty"`
	Description  string    `json:"description,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	Site         SiteSpec  `json:"site"`
	URL          string    `json:"url"`
	Term         string    `json:"term"`
	PostingDate  string    `json:"posting_date,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Remote       bool      `json:"remote"`
	Score        float64   `json:"score"`
}

// HasParsedSalary reports whether a numeric salary range was extracted.
func (p *JobPosting) HasParsedSalary() bool {
	return p.SalaryMin > 0 && p.SalaryMax > 0
}
