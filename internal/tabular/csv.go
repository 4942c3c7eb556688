package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// EncodeCSV writes the header row followed by every data row.
func EncodeCSV(t Table) ([]byte, error) {
	parts, err := SplitCSV(t, 0)
	if err != nil {
		return nil, err
	}
	return parts[0], nil
}

// SplitCSV encodes t as consecutive CSV parts of at most rowsPerPart data
// rows, each starting with the header. rowsPerPart <= 0 yields one part; an
// empty table yields a single header-only part.
func SplitCSV(t Table, rowsPerPart int) ([][]byte, error) {
	if rowsPerPart <= 0 || rowsPerPart > len(t.Rows) {
		rowsPerPart = len(t.Rows)
	}

	var parts [][]byte
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	startPart := func() error {
		buf.Reset()
		writer = csv.NewWriter(&buf)
		if err := writer.Write(t.Columns); err != nil {
			return fmt.Errorf("write %s header: %w", t.Name, err)
		}
		return nil
	}
	flushPart := func() error {
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("flush %s: %w", t.Name, err)
		}
		parts = append(parts, bytes.Clone(buf.Bytes()))
		return nil
	}

	if err := startPart(); err != nil {
		return nil, err
	}
	count := 0
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write %s row %d: %w", t.Name, i, err)
		}
		count++
		if count >= rowsPerPart && i < len(t.Rows)-1 {
			if err := flushPart(); err != nil {
				return nil, err
			}
			if err := startPart(); err != nil {
				return nil, err
			}
			count = 0
		}
	}
	if err := flushPart(); err != nil {
		return nil, err
	}
	return parts, nil
}
