package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dendrascience/filekit/sheet"
)

// DefaultReportName is the report file stem written inside a scanned directory.
const DefaultReportName = "metadata"

// ReportColumns are the report columns, in order.
var ReportColumns = []string{"file_path", "filename", "file_type", "file_size_kb", "file_hash_md5"}

// ReportPath returns the report location inside dir for format
// ("xlsx", "csv" or "json").
func ReportPath(dir, format string) (string, error) {
	switch format {
	case "xlsx", "csv", "json":
		return filepath.Join(dir, DefaultReportName+"."+format), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteReport writes inv to path, choosing the format by extension. Absent
// fields become blank cells (xlsx, csv) or null (json). Any failure wraps
// ErrOutputWrite.
func WriteReport(path string, inv *Inventory) error {
	var err error
	switch sheet.Format(path) {
	case "json":
		err = writeJSON(path, inv)
	case "xlsx", "csv":
		err = sheet.Write(path, ReportColumns, reportRows(inv))
	default:
		return fmt.Errorf("%w: %w: %s", ErrOutputWrite, ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}

// writeJSON writes inv as an indented JSON array of records.
func writeJSON(path string, inv *Inventory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(inv); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadReport reads a report previously written by WriteReport.
func LoadReport(path string) (*Inventory, error) {
	if sheet.Format(path) == "json" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inv := &Inventory{}
		if err := json.Unmarshal(data, inv); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedReport, path, err)
		}
		return inv, nil
	}

	t, err := sheet.Open(path)
	if err != nil {
		return nil, err
	}
	cols := make([]int, len(ReportColumns))
	for i, name := range ReportColumns {
		if cols[i], err = t.Column(name); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedReport, path, err)
		}
	}

	records := make([]FileRecord, 0, t.Len())
	for i, row := range t.Iterate {
		rec := FileRecord{
			Path:      row[cols[0]],
			Name:      row[cols[1]],
			Extension: row[cols[2]],
		}
		if s := row[cols[3]]; s != "" {
			size, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: bad size %q", ErrMalformedReport, path, sheet.SheetRow(i), s)
			}
			rec.SizeKB = &size
		}
		if h := row[cols[4]]; h != "" {
			rec.Hash = &h
		}
		records = append(records, rec)
	}
	return &Inventory{records: records}, nil
}

func reportRows(inv *Inventory) [][]any {
	rows := make([][]any, 0, inv.Len())
	for rec := range inv.Iterate {
		row := []any{rec.Path, rec.Name, rec.Extension, nil, nil}
		if rec.Extension == "" {
			row[2] = nil
		}
		if rec.SizeKB != nil {
			row[3] = *rec.SizeKB
		}
		if rec.Hash != nil {
			row[4] = *rec.Hash
		}
		rows = append(rows, row)
	}
	return rows
}

func formatKB(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
