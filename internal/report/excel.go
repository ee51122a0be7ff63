package report

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"learncheck/internal/score"
)

// GradebookExcel renders the gradebook as an .xlsx workbook, one row per
// (student, session, mapel) in the same order as the CSV.
func GradebookExcel(agg *score.Aggregator) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"student_id", "student_name", "session_id", "mapel",
		"n_q", "benar", "salah", "skor", "bobot", "persen", "last_timestamp_ms",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, key := range agg.SortedGradebookKeys() {
		rec := agg.Gradebook[key]
		row := i + 2
		values := []any{
			rec.StudentID,
			rec.StudentName,
			rec.SessionID,
			rec.Mapel,
			rec.NQ,
			rec.Benar,
			rec.Salah,
			rec.Skor,
			rec.Bobot,
			fmt.Sprintf("%.2f", score.Percent(rec.Skor, rec.Bobot)),
			strconv.FormatInt(rec.LastTimestampMS, 10),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "K", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteGradebookExcel writes the workbook to path.
func WriteGradebookExcel(path string, agg *score.Aggregator) error {
	b, err := GradebookExcel(agg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
