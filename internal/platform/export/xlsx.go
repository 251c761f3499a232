package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"workportal/internal/domain/workreports"
)

const reportSheet = "Reports"

// WriteXLSX writes report rows to a single-sheet workbook with full task text.
func WriteXLSX(w io.Writer, rows []workreports.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, head := range workreports.RowHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(reportSheet, cell, head); err != nil {
			return err
		}
		if err := f.SetCellStyle(reportSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row.Fields() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return err
			}
		}
	}

	for i := range workreports.RowHeader {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 18.0
		if i == 5 {
			width = 60
		}
		if err := f.SetColWidth(reportSheet, col, col, width); err != nil {
			return err
		}
	}
	return f.Write(w)
}
