package search

import "strings"

// Search hits include company homepages, blog posts and category pages.
// IsJobURL keeps only URLs that plausibly point at an individual posting.

var jobIndicators = []string{
	"job", "position", "career", "opening", "opportunity",
	"vacancy", "role", "hiring", "apply", "posting",
	"/careers/", "/jobs/", "/job/", "/positions/", "/apply/",
	"employment", "work-with-us", "join-us", "opportunities",
}

var atsPatterns = []string{
	"greenhouse.io/jobs/",
	"boards.greenhouse.io/",
	"lever.co/jobs/",
	"jobs.lever.co/",
	"apply.workable.com/",
	"jobs.smartrecruiters.com/",
	"myworkdayjobs.com/",
	"recruiting.ultipro.com/",
	"talent.icims.com/",
}

var nonJobPatterns = []string{
	"about", "contact", "privacy", "terms", "blog", "news",
	"press", "investors", "help", "support", "login", "signup",
}

// IsJobURL reports whether a URL looks like an individual job posting.
func IsJobURL(url string) bool {
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)

	likely := false
	for _, p := range atsPatterns {
		if strings.Contains(lower, p) {
			likely = true
			break
		}
	}
	if !likely {
		for _, ind := range jobIndicators {
			if strings.Contains(lower, ind) {
				likely = true
				break
			}
		}
	}
	if !likely {
		return false
	}

	for _, p := range nonJobPatterns {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}
