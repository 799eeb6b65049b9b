package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	rowsSheet    = "Recensioni"
	summarySheet = "Riepilogo"
)

var rowHeaders = []string{
	"ID", "Titolo", "Autore", "URL", "Punteggio", "Categoria", "Motivi", "Raccomandazioni",
}

var summaryHeaders = []string{"Categoria", "Conteggio", "Percentuale"}

// WriteXLSX serializes the report as a two-sheet spreadsheet: the
// sorted rows and the category summary.
func WriteXLSX(r *Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rowsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeRows(f, r.Rows); err != nil {
		return err
	}
	if err := writeSummary(f, r.Summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, rows []Row) error {
	if err := setRow(f, rowsSheet, 1, toAny(rowHeaders)); err != nil {
		return err
	}
	for i, row := range rows {
		values := []any{
			row.ReviewID,
			row.Title,
			row.Author,
			row.URL,
			row.Score,
			string(row.Category),
			strings.Join(row.Reasons, "; "),
			strings.Join(row.Recommendations, "; "),
		}
		if err := setRow(f, rowsSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, summary []SummaryRow) error {
	if err := setRow(f, summarySheet, 1, toAny(summaryHeaders)); err != nil {
		return err
	}
	for i, line := range summary {
		values := []any{line.Category, line.Count, fmt.Sprintf("%.1f%%", line.Percent)}
		if err := setRow(f, summarySheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
