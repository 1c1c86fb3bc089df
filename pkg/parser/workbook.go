package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// sheetWidth covers both blocks: columns 0-2 and 4-6.
const sheetWidth = 7

// row holds typed cells: nil for empty, float64 for numbers, string for text.
type row []any

func (r row) cell(i int) any {
	if i < len(r) {
		return r[i]
	}
	return nil
}

// readXLSX returns up to limit rows of the first worksheet.
func readXLSX(data []byte, limit int) ([]row, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, errNoSheet
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}

	rows := make([]row, 0, min(len(raw), limit))
	for r := 0; r < len(raw) && r < limit; r++ {
		out := make(row, sheetWidth)
		for c := 0; c < sheetWidth && c < len(raw[r]); c++ {
			out[c] = xlsxCell(f, sheet, c, r, raw[r][c])
		}
		rows = append(rows, out)
	}
	return rows, len(raw), nil
}

func xlsxCell(f *excelize.File, sheet string, col, rowIdx int, value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(col+1, rowIdx+1)
	if err != nil {
		return value
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return value
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return value
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}

var (
	// xls renders numeric cells as plain machine numbers in shortest form.
	machineNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	// Text such as "1.500" is a Brazilian thousands grouping, not 1.5. A
	// numeric cell holding exactly three decimals renders the same way and is
	// read as thousands too; the xls reader exposes no cell type to tell them
	// apart.
	groupedThousands = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
)

// readXLS returns up to limit rows of the first worksheet of a legacy workbook.
func readXLS(data []byte, limit int) ([]row, int, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, 0, fmt.Errorf("error creating workbook: %w", err)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, 0, errNoSheet
	}

	total := int(sheet.MaxRow) + 1
	rows := make([]row, 0, min(total, limit))
	for r := 0; r < total && r < limit; r++ {
		out := make(row, sheetWidth)
		if src := sheet.Row(r); src != nil {
			for c := 0; c < sheetWidth; c++ {
				out[c] = xlsCell(src.Col(c))
			}
		}
		rows = append(rows, out)
	}
	return rows, total, nil
}

func xlsCell(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if machineNumber.MatchString(value) && !groupedThousands.MatchString(value) {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}
