package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvRow is one data row: the set of variable names whose column held a
// truthy ("1") value.
type csvRow map[string]bool

// readRows reads a CSV file whose header row names variables and whose
// data rows hold "0"/"1" per variable column.
func readRows(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty CSV, expected a header row", path)
	}

	header := records[0]
	rows := make([]csvRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make(csvRow, len(header))
		for col, name := range header {
			if col >= len(rec) {
				continue
			}
			v, err := strconv.ParseBool(truthy(rec[col]))
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %q: %w", path, i, name, err)
			}
			if v {
				row[name] = true
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// truthy normalizes "1"/"0" (the spec's CSV convention) to strconv.ParseBool
// spellings, while still accepting "true"/"false" for convenience.
func truthy(s string) string {
	switch s {
	case "1":
		return "true"
	case "0":
		return "false"
	default:
		return s
	}
}
