package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ekoseoglu/takip/internal/i18n"
	"github.com/ekoseoglu/takip/internal/store"
)

const sheetName = "Sheet1"

// XLSX renders the record list as a spreadsheet, one row per record.
func XLSX(apps []store.Application, lang i18n.Lang) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for col, h := range headers(lang) {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("addressing header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, a := range apps {
		for col, v := range row(a, lang) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("addressing cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
