package tabular

import (
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	// MaxXLSXRows is the worksheet row limit, header included.
	MaxXLSXRows = 1048576
)

// EncodeXLSX writes one sheet per table, named after the table.
func EncodeXLSX(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("xlsx: no tables")
	}

	for _, t := range tables {
		if len(t.Rows)+1 > MaxXLSXRows {
			return nil, fmt.Errorf("xlsx: %s has %d rows, sheet limit is %d", t.Name, len(t.Rows), MaxXLSXRows-1)
		}
	}

	f := excelize.NewFile()
	for i, t := range tables {
		index := f.NewSheet(t.Name)
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, t); err != nil {
			return nil, err
		}
	}
	if !hasTable(tables, defaultSheet) {
		f.DeleteSheet(defaultSheet)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, t Table) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: %s header: %w", t.Name, err)
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = c
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, axis, &cells); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", t.Name, r, err)
		}
	}
	return nil
}

func hasTable(tables []Table, name string) bool {
	for _, t := range tables {
		if t.Name == name {
			return true
		}
	}
	return false
}
