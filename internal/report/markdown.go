package report

import (
	"fmt"
	"io"
	"strings"
)

func renderMarkdown(w io.Writer, r *Report, includeSummaries bool) error {
	var sb strings.Builder

	sb.WriteString("# Remote Job Search Report\n\n")
	sb.WriteString(fmt.Sprintf("**Search Terms:** %s\n", strings.Join(r.Terms, ", ")))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Run ID:** %s\n", r.RunID))
	sb.WriteString(fmt.Sprintf("**Total Jobs Found:** %d\n\n---\n\n", r.TotalJobs))

	writeMarkdownSummary(&sb, r)

	for _, group := range r.Groups {
		sb.WriteString(fmt.Sprintf("\n## %s (%d jobs)\n\n", group.Site, len(group.Postings)))
		for _, p := range group.Postings {
			companyInfo := ""
			if p.Company != "" {
				companyInfo = fmt.Sprintf(" at **%s**", p.Company)
			}
			sb.WriteString(fmt.Sprintf("### %s%s\n\n", p.Title, companyInfo))

			sb.WriteString(fmt.Sprintf("**[Apply Here](%s)**", p.URL))
			if p.Location != "" {
				sb.WriteString(fmt.Sprintf(" | **Location:** %s", p.Location))
			}
			if p.Salary != "" {
				sb.WriteString(fmt.Sprintf(" | **Salary:** %s", p.Salary))
			}
			sb.WriteString(fmt.Sprintf(" | **Score:** %.0f\n\n", p.Score))

			if includeSummaries && p.Summary != "" {
				sb.WriteString(fmt.Sprintf("**Summary:** %s\n\n", p.Summary))
			}
			if p.Requirements != "" {
				sb.WriteString(fmt.Sprintf("**Key Requirements:** %s\n\n", p.Requirements))
			}
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n---\n\n*Report generated by the job search agent on %s*\n",
		r.GeneratedAt.Format("2006-01-02 at 15:04:05")))

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMarkdownSummary(sb *strings.Builder, r *Report) {
	if r.TotalJobs == 0 {
		sb.WriteString("## Summary\n\nNo jobs found matching the search criteria.\n\n")
		return
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total Jobs:** %d\n", r.TotalJobs))
	sb.WriteString(fmt.Sprintf("- **Unique Companies:** %d\n", r.UniqueCompanies))
	sb.WriteString(fmt.Sprintf("- **Average Relevance Score:** %.0f\n", r.AverageScore))
	sb.WriteString(fmt.Sprintf("- **Sites With Results:** %d\n\n", len(r.Groups)))

	sb.WriteString("### Jobs by Site\n")
	for _, group := range r.Groups {
		sb.WriteString(fmt.Sprintf("- **%s**: %d jobs (avg score: %.0f)\n",
			group.Site, len(group.Postings), group.AverageScore))
	}

	sb.WriteString("\n### Salary Information\n")
	if r.SalaryStats == nil {
		sb.WriteString("- No salary information available\n")
	} else {
		sb.WriteString(fmt.Sprintf("- **Jobs with Salary Info:** %d out of %d\n",
			r.SalaryStats.WithSalary, r.TotalJobs))
		sb.WriteString(fmt.Sprintf("- **Salary Range:** $%.0f - $%.0f\n",
			r.SalaryStats.Minimum, r.SalaryStats.Maximum))
		sb.WriteString(fmt.Sprintf("- **Average Salary:** $%.0f\n", r.SalaryStats.Average))
	}
	sb.WriteString("\n---\n\n")
}
