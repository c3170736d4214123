// Package workbook stores gateway sheets in a local XLSX file.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Table is a rows.Table backed by one workbook file. Every write is saved
// to disk before it returns.
type Table struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// Open loads the workbook at path, or starts an empty one if the file does
// not exist yet.
func Open(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Println("Workbook not found, creating", path)
		f = excelize.NewFile()
	} else if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Table{path: path, file: f}, nil
}

// Close releases the workbook.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}

func (t *Table) hasSheet(sheet string) bool {
	i, err := t.file.GetSheetIndex(sheet)
	return err == nil && i >= 0
}

func (t *Table) ReadRows(_ context.Context, sheet string) ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasSheet(sheet) {
		return nil, nil
	}
	rows, err := t.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (t *Table) AppendRow(_ context.Context, sheet string, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasSheet(sheet) {
		if _, err := t.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	rows, err := t.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return t.writeRow(sheet, len(rows), row)
}

func (t *Table) UpdateRow(_ context.Context, sheet string, index int, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasSheet(sheet) {
		return fmt.Errorf("sheet %s does not exist", sheet)
	}
	return t.writeRow(sheet, index, row)
}

// writeRow writes row at the zero-based index and saves the file. Callers
// hold t.mu.
func (t *Table) writeRow(sheet string, index int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, index+1)
	if err != nil {
		return err
	}
	if err := t.file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	if err := t.file.SaveAs(t.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", t.path, err)
	}
	return nil
}
