// Package export renders report rows and attendance summaries as CSV, PDF
// and XLSX documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"workportal/internal/domain/workreports"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filename builds a timestamped attachment name such as
// work_reports_20250310_1530.csv.
func Filename(prefix, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_1504"), ext)
}

// WriteCSV writes the header and one record per row with full task text.
func WriteCSV(w io.Writer, rows []workreports.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(workreports.RowHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
