// Package filter evaluates postings against the configured filter set.
// Every predicate is a pure function of the posting and the config; the
// active predicates apply as a conjunction.
package filter

import (
	"strings"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
)

// Apply tags each posting pass/reject and returns the survivors. The
// remote-verification outcome is recorded on the posting.
func Apply(postings []models.JobPosting, cfg config.FilterConfig) (kept []models.JobPosting, rejected int) {
	for _, p := range postings {
		p.Remote = IsRemote(&p, cfg)
		if Pass(&p, cfg) {
			kept = append(kept, p)
		} else {
			rejected++
		}
	}
	return kept, rejected
}

// Pass reports whether a posting satisfies all active predicates.
func Pass(p *models.JobPosting, cfg config.FilterConfig) bool {
	if ContainsExcludedKeyword(p, cfg.ExcludeKeywords) {
		return false
	}
	if ContainsExcludedKeyword(p, cfg.ExcludeExperienceLevels) {
		return false
	}
	if !SalaryAcceptable(p, cfg) {
		return false
	}
	if cfg.RemoteRequired() && !IsRemote(p, cfg) {
		return false
	}
	return true
}

// ContainsExcludedKeyword reports whether any keyword appears in the
// posting title or description, case-insensitive substring match. An
// empty keyword list disables the predicate.
func ContainsExcludedKeyword(p *models.JobPosting, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	text := strings.ToLower(p.Title + " " + p.Description)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// SalaryAcceptable checks the parsed salary against the configured range.
// Postings with no parseable salary pass unless RejectUnknownSalary is set.
func SalaryAcceptable(p *models.JobPosting, cfg config.FilterConfig) bool {
	if !p.HasParsedSalary() {
		return !cfg.RejectUnknownSalary
	}
	if p.SalaryMax < cfg.SalaryRanges.Minimum {
		return false
	}
	if p.SalaryMin > cfg.SalaryRanges.Maximum {
		return false
	}
	return true
}

// IsRemote verifies remote status from page content. The search operator
// only biases ranking, so a positive remote token must appear and no
// onsite counter-indicator may appear.
func IsRemote(p *models.JobPosting, cfg config.FilterConfig) bool {
	text := strings.ToLower(p.Title + " " + p.Description + " " + p.Location)

	hasRemote := false
	for _, kw := range cfg.RemoteKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			hasRemote = true
			break
		}
	}
	if !hasRemote {
		return false
	}

	for _, kw := range cfg.OnsiteKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
