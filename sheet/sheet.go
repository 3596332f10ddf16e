// Package sheet reads and writes the tabular files the batch jobs use as their
// source of truth: the first worksheet of an .xlsx workbook, or a .csv file.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrEmptyWorkbook     = errors.New("workbook has no header row")
	ErrColumnNotFound    = errors.New("column not found")
)

// Table is a header row plus data rows. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Open reads the table at path. The format is chosen by extension.
func Open(path string) (*Table, error) {
	var (
		raw [][]string
		err error
	)
	switch Format(path) {
	case "xlsx":
		raw, err = readXLSX(path)
	case "csv":
		raw, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWorkbook, path)
	}

	t := &Table{Header: trimAll(raw[0])}
	for _, row := range raw[1:] {
		cells := make([]string, len(t.Header))
		for i := range cells {
			if i < len(row) {
				cells[i] = strings.TrimSpace(row[i])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// Format returns the lower-cased extension of path without the dot.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named header. The error wraps
// ErrColumnNotFound and lists the available columns.
func (t *Table) Column(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (available columns: %s)", ErrColumnNotFound, name, strings.Join(t.Header, ", "))
}

// Value returns the cell at row and col, or "" when out of range.
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Header) {
		return ""
	}
	return t.Rows[row][col]
}

// Iterate yields each data row with its index.
func (t *Table) Iterate(yield func(int, []string) bool) {
	for i, row := range t.Rows {
		if !yield(i, row) {
			return
		}
	}
}

// SheetRow converts a data row index to the 1-based row number a spreadsheet
// user sees, accounting for the header row.
func SheetRow(index int) int {
	return index + 2
}

// Write stores header and rows at path in the format given by its extension.
// Nil cells are left blank.
func Write(path string, header []string, rows [][]any) error {
	switch Format(path) {
	case "xlsx":
		return writeXLSX(path, header, rows)
	case "csv":
		return writeCSV(path, header, rows)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// WriteTable stores t at path, appending extra columns to every row.
func WriteTable(path string, t *Table, extraHeader []string, extra [][]any) error {
	header := append(append([]string{}, t.Header...), extraHeader...)
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]any, 0, len(header))
		for _, cell := range row {
			if cell == "" {
				out = append(out, nil)
				continue
			}
			out = append(out, cell)
		}
		if i < len(extra) {
			out = append(out, extra[i]...)
		}
		rows[i] = out
	}
	return Write(path, header, rows)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWorkbook, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s of %s: %w", sheets[0], path, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func writeXLSX(path string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func writeCSV(path string, header []string, rows [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func cellString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
