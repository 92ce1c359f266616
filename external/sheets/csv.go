package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
)

const utf8BOM = "\ufeff"

// ParseCSV reads an exported tab. The first non-blank row is the header; blank rows are
// skipped, short rows are padded with empty values and cells past the header are dropped.
func ParseCSV(raw []byte) ([]candidate.Record, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	out := make([]candidate.Record, 0, 32)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if isBlankRow(row) {
			continue
		}

		if header == nil {
			header = normalizeHeader(row)
			continue
		}

		record := make(candidate.Record, len(header))
		for idx, column := range header {
			if column == "" {
				continue
			}
			value := ""
			if idx < len(row) {
				value = row[idx]
			}
			record[column] = value
		}
		out = append(out, record)
	}

	return out, nil
}

func normalizeHeader(row []string) []string {
	header := make([]string, len(row))
	seen := make(map[string]struct{}, len(row))
	for idx, cell := range row {
		if idx == 0 {
			cell = strings.TrimPrefix(cell, utf8BOM)
		}
		cell = strings.TrimSpace(cell)
		// First occurrence wins for duplicated column names.
		if _, dup := seen[cell]; dup {
			cell = ""
		}
		if cell != "" {
			seen[cell] = struct{}{}
		}
		header[idx] = cell
	}
	return header
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
