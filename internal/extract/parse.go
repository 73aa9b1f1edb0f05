package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	htmlEntityRegex = regexp.MustCompile(`&[a-zA-Z]+;`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]+>`)
)

// CleanText collapses whitespace and strips stray HTML tags and entities
// from snippet-like text.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = htmlTagRegex.ReplaceAllString(text, " ")
	text = htmlEntityRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Salary figures outside these bounds are treated as parse noise (hourly
// rates, request IDs, headcount numbers).
const (
	salaryFloor   = 10000
	salaryCeiling = 1000000
)

var salaryRangePatterns = []*regexp.Regexp{
	// $100,000 - $150,000
	regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(?:-|–|—|to)\s*\$?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	// 100,000 - 150,000 USD / per year
	regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+)\s*(?:-|–|—|to)\s*(\d{1,3}(?:,\d{3})+)\s*(?:usd|dollars?|per\s+year|annually)`),
	// 100k - 150k
	regexp.MustCompile(`(?i)(\d{2,3})\s*k\s*(?:-|–|—|to)\s*(\d{2,3})\s*k`),
}

var salarySinglePatterns = []*regexp.Regexp{
	// $100,000 per year
	regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(?:per\s+year|annually|/\s*year|/\s*yr)`),
}

// ParseSalary extracts a yearly salary range from free text. It returns
// (0, 0) when nothing parseable is found.
func ParseSalary(text string) (int, int) {
	if text == "" {
		return 0, 0
	}

	for _, pattern := range salaryRangePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			min := parseFigure(match[1])
			max := parseFigure(match[2])
			if strings.Contains(strings.ToLower(match[0]), "k") {
				min *= 1000
				max *= 1000
			}
			if inSalaryBounds(min) && inSalaryBounds(max) && min <= max {
				return min, max
			}
		}
	}

	for _, pattern := range salarySinglePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			figure := parseFigure(match[1])
			if inSalaryBounds(figure) {
				return figure, figure
			}
		}
	}

	return 0, 0
}

// parseFigure converts "150,000.00" to 150000, ignoring cents.
func parseFigure(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	if dot := strings.Index(s, "."); dot >= 0 {
		s = s[:dot]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func inSalaryBounds(n int) bool {
	return n >= salaryFloor && n <= salaryCeiling
}

var sentenceSplitRegex = regexp.MustCompile(`[.!?]+`)

var summaryKeywords = []string{
	"responsible", "role", "position", "seeking", "looking", "opportunity",
	"experience", "skills", "requirements", "qualifications", "team",
}

// Summarize picks the leading informative sentences from a description,
// preferring ones that mention the role or its requirements.
func Summarize(description string, maxLength int) string {
	if description == "" {
		return ""
	}

	sentences := sentenceSplitRegex.Split(description, -1)
	if len(sentences) > 5 {
		sentences = sentences[:5]
	}

	var picked []string
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 20 {
			continue
		}
		lower := strings.ToLower(sentence)
		keyworded := false
		for _, kw := range summaryKeywords {
			if strings.Contains(lower, kw) {
				keyworded = true
				break
			}
		}
		if keyworded || len(picked) == 0 {
			picked = append(picked, sentence)
		}
		if len(strings.Join(picked, " ")) > maxLength {
			break
		}
	}

	summary := strings.Join(picked, ". ")
	if len(summary) > maxLength {
		if cut := strings.LastIndex(summary[:maxLength], " "); cut > 0 {
			summary = summary[:cut]
		} else {
			summary = summary[:maxLength]
		}
		summary += "..."
	}
	return summary
}

var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:requirements?|qualifications?)[:\-\s]+([^.]+(?:\.[^.]+){0,3})`),
	regexp.MustCompile(`(?is)(?:you\s+(?:will\s+)?(?:need|have|bring))[:\-\s]+([^.]+(?:\.[^.]+){0,2})`),
	regexp.MustCompile(`(?is)(?:must\s+have|required)[:\-\s]+([^.]+(?:\.[^.]+){0,2})`),
}

// ExtractRequirements pulls requirement-looking fragments from a
// description, best effort, at most three.
func ExtractRequirements(description string) string {
	if description == "" {
		return ""
	}

	var requirements []string
	for _, pattern := range requirementPatterns {
		for _, match := range pattern.FindAllStringSubmatch(description, -1) {
			fragment := strings.TrimSpace(match[1])
			if len(fragment) > 10 {
				requirements = append(requirements, fragment)
			}
			if len(requirements) >= 3 {
				return strings.Join(requirements[:3], "; ")
			}
		}
	}
	return strings.Join(requirements, "; ")
}
