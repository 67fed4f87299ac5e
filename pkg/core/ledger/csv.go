package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawTable is a decoded tabular source before normalization. Cell values are
// kept as strings; the value parser owns all token interpretation.
type RawTable struct {
	Name    string
	Columns []string
	Rows    []RawRow
}

// RawRow maps lower-cased column names to raw cell text.
type RawRow map[string]string

// Get returns the trimmed cell for a column, or "" when absent.
func (r RawRow) Get(column string) string {
	return strings.TrimSpace(r[strings.ToLower(column)])
}

// Required columns per source table.
var (
	ActualsColumns = []string{"entity", "account_category", "month", "currency", "amount"}
	BudgetColumns  = []string{"entity", "account_category", "month", "currency", "amount"}
	FXColumns      = []string{"month", "currency", "rate_to_usd"}
	CashColumns    = []string{"entity", "month", "currency", "cash_usd"}
)

// DecodeTable reads a CSV source into a RawTable and verifies that every
// required column is present. Column matching is case-insensitive; absence
// of a required column is a fatal load error.
func DecodeTable(name string, r io.Reader, required []string) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table %s: empty source", name)
	}
	if err != nil {
		return nil, fmt.Errorf("table %s: read header: %w", name, err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		col := strings.ToLower(strings.TrimSpace(h))
		columns[i] = col
		index[col] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("table %s: required column %q is missing", name, col)
		}
	}

	table := &RawTable{Name: name, Columns: columns}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table %s line %d: %w", name, line, err)
		}
		row := make(RawRow, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
