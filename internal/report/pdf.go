package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Per-site cap keeps the PDF readable; the full list lives in Markdown.
const pdfMaxPerSite = 10

func renderPDF(w io.Writer, r *Report, includeSummaries bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 40, 90)
	pdf.MultiCell(0, 9, fmt.Sprintf("Remote Job Search Report - %s", strings.Join(r.Terms, ", ")), "", "L", false)
	pdf.Ln(4)

	writePDFSummary(pdf, r)

	for _, group := range r.Groups {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(20, 40, 90)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s (%d jobs)", group.Site, len(group.Postings)), "", 1, "L", false, 0, "")

		postings := group.Postings
		if len(postings) > pdfMaxPerSite {
			postings = postings[:pdfMaxPerSite]
		}

		for _, p := range postings {
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(120, 30, 30)
			pdf.MultiCell(0, 6, p.Title, "", "L", false)

			pdf.SetTextColor(0, 0, 0)
			writePDFField(pdf, "Company", orDefault(p.Company, "Not specified"))
			writePDFField(pdf, "Location", orDefault(p.Location, "Remote"))
			writePDFField(pdf, "Salary", orDefault(p.Salary, "Not specified"))
			writePDFField(pdf, "Score", fmt.Sprintf("%.0f", p.Score))

			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(28, 5, "Link", "1", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "U", 9)
			pdf.SetTextColor(0, 0, 200)
			pdf.CellFormat(0, 5, "Apply Here", "1", 1, "L", false, 0, p.URL)
			pdf.SetTextColor(0, 0, 0)

			if includeSummaries && p.Summary != "" {
				pdf.SetFont("Helvetica", "", 9)
				pdf.MultiCell(0, 5, "Summary: "+p.Summary, "", "L", false)
			}
		}
	}

	return pdf.Output(w)
}

func writePDFSummary(pdf *fpdf.Fpdf, r *Report) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(20, 40, 90)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	rows := [][2]string{
		{"Search Terms", strings.Join(r.Terms, ", ")},
		{"Total Jobs Found", fmt.Sprintf("%d", r.TotalJobs)},
		{"Unique Companies", fmt.Sprintf("%d", r.UniqueCompanies)},
		{"Search Date", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Sites With Results", fmt.Sprintf("%d", len(r.Groups))},
		{"Average Score", fmt.Sprintf("%.0f", r.AverageScore)},
		{"Run ID", r.RunID},
	}
	if r.SalaryStats != nil {
		rows = append(rows, [2]string{
			"Salary Range",
			fmt.Sprintf("$%.0f - $%.0f (avg $%.0f)", r.SalaryStats.Minimum, r.SalaryStats.Maximum, r.SalaryStats.Average),
		})
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, row[1], "1", 1, "L", false, 0, "")
	}
}

func writePDFField(pdf *fpdf.Fpdf, name, value string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(28, 5, name, "1", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, value, "1", 1, "L", false, 0, "")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
