package controllers

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/frvega/conversor-go/tool"
)

// MergedSheetName is the sheet holding consolidated rows.
const MergedSheetName = "Consolidado"

// MergeWorkbooks appends the data rows of every workbook's first sheet under
// a single header row (taken from the first workbook) and returns the
// resulting xlsx bytes.
func MergeWorkbooks(inputs [][]byte) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no workbooks to merge")
	}

	out := excelize.NewFile()
	defer func() {
		if err := out.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close merged workbook: %v", err)
		}
	}()
	if err := out.SetSheetName("Sheet1", MergedSheetName); err != nil {
		return nil, fmt.Errorf("failed to name merged sheet: %v", err)
	}

	rowIdx := 1
	wroteHeader := false
	for i, data := range inputs {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %d: %v", i+1, err)
		}
		sheet := f.GetSheetName(0)
		rows, err := f.GetRows(sheet)
		if closeErr := f.Close(); closeErr != nil {
			tool.DefaultLogger.Errorf("Failed to close workbook %d: %v", i+1, closeErr)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read workbook %d: %v", i+1, err)
		}

		for j, row := range rows {
			if j == 0 {
				// First row is the header, keep only the first one.
				if wroteHeader {
					continue
				}
				wroteHeader = true
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return nil, fmt.Errorf("failed to address row %d: %v", rowIdx, err)
			}
			if err := out.SetSheetRow(MergedSheetName, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %v", rowIdx, err)
			}
			rowIdx++
		}
	}

	buf, err := out.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize merged workbook: %v", err)
	}
	return buf.Bytes(), nil
}
