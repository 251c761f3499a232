package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"workportal/internal/domain/attendance"
	"workportal/internal/domain/workreports"
)

// PDFDetailsWidth caps task details in the PDF table.
const PDFDetailsWidth = 60

var reportColumnWidths = []float64{22, 34, 28, 28, 36, 100, 22}

// WriteReportsPDF renders a landscape table of report rows with a status
// summary block. Details are truncated to fit the page.
func WriteReportsPDF(w io.Writer, title string, generatedAt time.Time, reports []workreports.Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(8)

	summary := workreports.Summarize(reports)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total reports: %d", summary.TotalReports))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	for _, status := range sortedStatuses(summary) {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %d", status, summary.Count(status))))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(224, 224, 224)
	for i, head := range workreports.RowHeader {
		pdf.CellFormat(reportColumnWidths[i], 7, head, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range workreports.TableRows(reports, PDFDetailsWidth) {
		for i, field := range row.Fields() {
			pdf.CellFormat(reportColumnWidths[i], 6, tr(field), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

// WriteAttendancePDF renders one line per reporting manager plus totals.
func WriteAttendancePDF(w io.Writer, summary attendance.Summary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Attendance Summary")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Date: "+summary.Date)
	pdf.Ln(10)

	widths := []float64{50, 22, 20, 20, 78}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(224, 224, 224)
	for i, head := range []string{"Reporting Manager", "Resources", "Present", "Absent", "Present Employees"} {
		pdf.CellFormat(widths[i], 7, head, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, manager := range summary.Managers() {
		m := summary.Summary[manager]
		cells := []string{
			manager,
			fmt.Sprint(m.TotalResources),
			fmt.Sprint(m.Present),
			fmt.Sprint(m.Absent),
			truncateText(strings.Join(m.PresentEmployees, ", "), 45),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	totals := summary.Totals()
	pdf.SetFont("Helvetica", "B", 9)
	for i, cell := range []string{"Total", fmt.Sprint(totals.TotalResources), fmt.Sprint(totals.Present), fmt.Sprint(totals.Absent), ""} {
		pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	return pdf.Output(w)
}

func sortedStatuses(s workreports.Summary) []string {
	out := make([]string, 0, len(s.CountsByStatus))
	for status := range s.CountsByStatus {
		out = append(out, status)
	}
	sort.Strings(out)
	return out
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
