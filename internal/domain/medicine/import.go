package medicine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Errors surfaced verbatim to the uploader.
var (
	errStockNotNumber   = errors.New("Stock must be a number.")
	errReorderNotNumber = errors.New("Reorder level must be a number.")
	errExpiryNotDate    = errors.New("Expiry must be a valid date.")
)

// requiredColumns are the CSV headers a batch upload must carry, checked in
// this order so the first missing field reported is deterministic.
var requiredColumns = []string{
	"name", "batchNumber", "expiry", "stock", "reorderLevel",
	"country", "district", "chiefdom", "facility",
}

var expiryLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ImportRow is one parsed CSV line before it becomes a Record.
type ImportRow struct {
	Name         string
	BatchNumber  string
	Expiry       time.Time
	Stock        int
	ReorderLevel int
	Country      string
	District     string
	Chiefdom     string
	Facility     string
}

// ImportResult reports what a batch upload did.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Total      int `json:"total"`
}

func parseExpiry(s string) (time.Time, error) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// validateRow checks one row's fields and converts it. The error strings are
// shown verbatim to the uploader, so they name the column as the file spells
// it.
func validateRow(row map[string]string) (*ImportRow, error) {
	for _, field := range requiredColumns {
		if strings.TrimSpace(row[field]) == "" {
			return nil, fmt.Errorf("Missing or empty field %q in a row.", field)
		}
	}

	stock, err := strconv.Atoi(strings.TrimSpace(row["stock"]))
	if err != nil {
		return nil, errStockNotNumber
	}
	reorder, err := strconv.Atoi(strings.TrimSpace(row["reorderLevel"]))
	if err != nil {
		return nil, errReorderNotNumber
	}
	expiry, err := parseExpiry(strings.TrimSpace(row["expiry"]))
	if err != nil {
		return nil, errExpiryNotDate
	}

	return &ImportRow{
		Name:         strings.TrimSpace(row["name"]),
		BatchNumber:  strings.TrimSpace(row["batchNumber"]),
		Expiry:       expiry,
		Stock:        stock,
		ReorderLevel: reorder,
		Country:      strings.TrimSpace(row["country"]),
		District:     strings.TrimSpace(row["district"]),
		Chiefdom:     strings.TrimSpace(row["chiefdom"]),
		Facility:     strings.TrimSpace(row["facility"]),
	}, nil
}

// ParseImport reads a whole CSV upload and validates every row before
// accepting any. The first invalid row rejects the entire file. Rows whose
// batch number repeats an earlier row in the same file are dropped
// silently, keeping the first occurrence.
func ParseImport(r io.Reader) ([]*ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("Failed to parse CSV: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to parse CSV: %v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []*ImportRow
	seen := make(map[string]bool)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Failed to parse CSV: %v", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}

		parsed, err := validateRow(row)
		if err != nil {
			return nil, err
		}
		if seen[parsed.BatchNumber] {
			continue
		}
		seen[parsed.BatchNumber] = true
		rows = append(rows, parsed)
	}
	return rows, nil
}
