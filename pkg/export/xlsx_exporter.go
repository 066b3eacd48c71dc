package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName = 31
	defaultSheet = "Sheet1"
)

// XLSXExporter renders datasets as worksheets of one workbook.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes one sheet per dataset with a bold frozen header row. Cells
// holding integers are written as numbers.
func (e *XLSXExporter) Render(sheets ...Dataset) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}

	used := make(map[string]int, len(sheets))
	for i, data := range sheets {
		if len(data.Headers) == 0 {
			return nil, fmt.Errorf("sheet %d requires at least one header", i+1)
		}
		name := sheetName(data.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, data, headerStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, data Dataset, headerStyle int) error {
	for col, header := range data.Headers {
		if err := f.SetCellValue(sheet, cellName(col+1, 1), header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	last := cellName(len(data.Headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for r, row := range data.Rows {
		for col, header := range data.Headers {
			raw, ok := row[header]
			if !ok || raw == "" {
				continue
			}
			var value interface{} = raw
			if n, err := strconv.Atoi(raw); err == nil {
				value = n
			}
			if err := f.SetCellValue(sheet, cellName(col+1, r+2), value); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	if err := f.SetColWidth(sheet, "A", lastCol, 14); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return nil
}

func sheetName(name string, idx int, used map[string]int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", idx+1)
	}
	runes := []rune(name)
	if len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if n, ok := used[name]; ok {
		used[name] = n + 1
		suffix := fmt.Sprintf(" (%d)", n+1)
		runes = []rune(name)
		if len(runes)+len(suffix) > maxSheetName {
			name = string(runes[:maxSheetName-len(suffix)])
		}
		return name + suffix
	}
	used[name] = 1
	return name
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
