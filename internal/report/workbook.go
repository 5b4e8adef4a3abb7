package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rickgao/consensus-export/internal/download"
)

// SummarySheet is the worksheet name used by WriteWorkbook.
const SummarySheet = "Summary"

// tableHeaderRow is the first row of the per-task table.
const tableHeaderRow = 10

var tableHeader = []any{"Asset Type", "Snap Time", "Asset", "Outcome", "Files", "Bytes", "Detail"}

// WriteWorkbook saves an XLSX summary of s to path, overwriting any existing file.
func WriteWorkbook(path string, s *download.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := [][]any{
		{"Run ID", s.RunID.String()},
		{"Client", s.Client},
		{"Snap Date", s.SnapDate},
		{"Started", s.StartedAt.UTC().Format(time.RFC3339)},
		{"Finished", s.FinishedAt.UTC().Format(time.RFC3339)},
		{"Downloaded", s.Count(download.Downloaded)},
		{"Skipped", s.Count(download.Skipped)},
		{"Failed", s.Count(download.Failed)},
	}
	for i, row := range header {
		if err := setRow(f, i+1, row); err != nil {
			return err
		}
	}

	if err := setRow(f, tableHeaderRow, tableHeader); err != nil {
		return err
	}
	for i, r := range s.Results {
		row := []any{
			r.Task.AssetType,
			r.Task.SnapTime,
			r.Asset.Name,
			r.Outcome.String(),
			strings.Join(r.Files, "\n"),
			r.Bytes,
			detail(r),
		}
		if err := setRow(f, tableHeaderRow+1+i, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A8", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "A10", "G10", bold); err != nil {
		return fmt.Errorf("style table header: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "D", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "E", "E", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func detail(r download.Result) string {
	switch r.Outcome {
	case download.Skipped:
		return "no valuation results found"
	case download.Failed:
		if r.Err != nil {
			return r.Err.Error()
		}
	}
	return ""
}
