package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"call-analysis-go/internal/types"
)

var xlsxHeader = []any{"id", "yearMonth", "customerName", "geographicalLocation", "productOfInterest", "transcriptionText"}

// XLSX appends one row per record to a local workbook. The file is opened
// and saved on every write so it can be inspected between runs.
type XLSX struct {
	mu    sync.Mutex
	path  string
	sheet string
}

// NewXLSX returns a store writing to sheet in the workbook at path. The file
// is created on the first Save if it does not exist.
func NewXLSX(path, sheet string) *XLSX {
	return &XLSX{path: path, sheet: sheet}
}

func (x *XLSX) Save(_ context.Context, rec types.AnalysisRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := x.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(x.sheet)
	if err != nil {
		return fmt.Errorf("xlsx: read rows: %w", err)
	}
	if len(rows) == 0 {
		if err := f.SetSheetRow(x.sheet, "A1", &xlsxHeader); err != nil {
			return fmt.Errorf("xlsx: write header: %w", err)
		}
		rows = append(rows, nil)
	}

	doc := rec.Document()
	row := []any{doc.ID, doc.YearMonth, doc.Analysis.CustomerName, doc.Analysis.GeographicalLocation,
		doc.Analysis.ProductOfInterest, doc.TranscriptionText}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	if err := f.SetSheetRow(x.sheet, cell, &row); err != nil {
		return fmt.Errorf("xlsx: write row: %w", err)
	}
	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", x.path, err)
	}
	return nil
}

func (x *XLSX) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(x.path)
	if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), x.sheet); err != nil {
			return nil, fmt.Errorf("xlsx: name sheet: %w", err)
		}
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	if idx, _ := f.GetSheetIndex(x.sheet); idx == -1 {
		if _, err := f.NewSheet(x.sheet); err != nil {
			return nil, fmt.Errorf("xlsx: new sheet: %w", err)
		}
	}
	return f, nil
}

// rows returns the data rows written so far, header excluded.
func (x *XLSX) rows() ([][]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, err := os.Stat(x.path); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	defer f.Close()
	rows, err := f.GetRows(x.sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (x *XLSX) Close(context.Context) error { return nil }
