package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadAuxCSV reads an aux-value table keyed by sample id. idColumn and
// valueColumn name the two columns of interest; other columns are ignored.
// Rows whose value does not parse as a float are rejected.
func LoadAuxCSV(path, idColumn, valueColumn string) (map[string]float64, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	aux := make(map[string]float64, len(rows))
	for i, row := range rows {
		id, ok := row[idColumn]
		if !ok {
			return nil, fmt.Errorf("csv: %s has no column %q", path, idColumn)
		}
		raw, ok := row[valueColumn]
		if !ok {
			return nil, fmt.Errorf("csv: %s has no column %q", path, valueColumn)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: value %q is not a number: %w", i+2, raw, err)
		}
		aux[id] = v
	}
	return aux, nil
}
