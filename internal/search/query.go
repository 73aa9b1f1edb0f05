package search

import (
	"fmt"

	"job-search-go/internal/config"
	"job-search-go/internal/models"
)

// BuildQueries expands (terms x sites) into one query per pair. Query text
// scopes the search to the site and biases results toward remote postings;
// the date restriction limits hits to the configured time window.
//
// It is a pure transformation: no I/O, no side effects. Malformed input
// (empty term or site set) is a configuration error, not retried.
func BuildQueries(terms []string, sites []models.SiteSpec, windowHours int) ([]models.Query, error) {
	if len(terms) == 0 {
		return nil, &config.ConfigError{
			Field:       "search terms",
			Reason:      "no search terms provided",
			Remediation: "pass at least one term, e.g. jobsearch search \"data scientist\"",
		}
	}
	if len(sites) == 0 {
		return nil, &config.ConfigError{
			Field:       "job_sites",
			Reason:      "no job sites configured",
			Remediation: "add at least one domain under job_sites in the config file",
		}
	}

	restrict := dateRestrict(windowHours)
	queries := make([]models.Query, 0, len(terms)*len(sites))
	for _, term := range terms {
		for _, site := range sites {
			queries = append(queries, models.Query{
				Term:         term,
				Site:         site,
				Text:         fmt.Sprintf(`site:%s "%s" AND "remote"`, site.Domain, term),
				DateRestrict: restrict,
			})
		}
	}
	return queries, nil
}

// dateRestrict maps the time window onto the search API's dateRestrict
// parameter: past day, past week, or past month.
func dateRestrict(hours int) string {
	switch {
	case hours <= 24:
		return "d1"
	case hours <= 168:
		return "w1"
	default:
		return "m1"
	}
}
