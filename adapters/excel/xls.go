package excel

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/yamitzky/xlrd-go/xlrd"

	"sheetdash/domain/grid"
)

// decodeXLS reads a legacy BIFF workbook. xlrd only opens files from disk,
// so the content is staged in a temp file for the decode. Formatting info
// stays on so date cells can be told apart from plain numbers.
func decodeXLS(data []byte) (*grid.Workbook, error) {
	tmp, err := os.CreateTemp("", "workbook-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to stage workbook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage workbook: %w", err)
	}

	book, err := xlrd.OpenWorkbook(tmp.Name(), &xlrd.OpenWorkbookOptions{
		FormattingInfo: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	wb := grid.NewWorkbook()
	for i := 0; i < book.NSheets; i++ {
		sheet, err := book.SheetByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %d: %w", i, err)
		}

		raw := make(grid.RawSheet, 0, sheet.NRows)
		for rowx := 0; rowx < sheet.NRows; rowx++ {
			row := make([]string, sheet.NCols)
			for colx := 0; colx < sheet.NCols; colx++ {
				row[colx] = cellText(book, sheet, rowx, colx)
			}
			raw = append(raw, row)
		}
		wb.Add(sheet.Name, raw)
	}
	if wb.Len() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return wb, nil
}

// cellText renders one BIFF cell the way it would display: dates through
// their number format, numbers without float noise, booleans as TRUE/FALSE.
func cellText(book *xlrd.Book, sheet *xlrd.Sheet, rowx, colx int) string {
	value := sheet.RawCellValue(rowx, colx)

	switch sheet.RawCellType(rowx, colx) {
	case xlrd.XL_CELL_TEXT:
		return toString(value)
	case xlrd.XL_CELL_NUMBER:
		val, ok := toFloat(value)
		if !ok {
			return toString(value)
		}
		if isDateCell(book, sheet.RawCellXFIndex(rowx, colx)) {
			if formatted, ok := formatXLSDate(val, book.Datemode); ok {
				return formatted
			}
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case xlrd.XL_CELL_BOOLEAN:
		return formatXLSBool(value)
	case xlrd.XL_CELL_ERROR:
		return formatXLSError(value)
	case xlrd.XL_CELL_EMPTY, xlrd.XL_CELL_BLANK:
		return ""
	default:
		return toString(value)
	}
}

// isDateCell checks the cell's XF record for a date number format
func isDateCell(book *xlrd.Book, xfIndex int) bool {
	if xfIndex < 0 || xfIndex >= len(book.XFList) {
		return false
	}
	formatKey := book.XFList[xfIndex].FormatKey
	if isBuiltinDateFormat(formatKey) {
		return true
	}
	if book.FormatMap == nil {
		return false
	}
	format := book.FormatMap[formatKey]
	if format == nil || format.FormatString == "" {
		return false
	}
	return xlrd.IsDateFormatString(book, format.FormatString)
}

// isBuiltinDateFormat covers the BIFF built-in date/time format keys
func isBuiltinDateFormat(key int) bool {
	switch key {
	case 14, 15, 16, 17, 18, 19, 20, 21, 22, 27, 30, 36, 50, 57, 58:
		return true
	default:
		return false
	}
}

func formatXLSDate(value float64, datemode int) (string, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", false
	}
	t, err := xlrd.XldateAsDatetime(value, datemode)
	if err != nil {
		return "", false
	}
	if value < 1 {
		return t.Format("15:04:05"), true
	}
	if value != math.Floor(value) {
		return t.Format("2006-01-02 15:04:05"), true
	}
	return t.Format("2006-01-02"), true
}

func formatXLSBool(value interface{}) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		if v != 0 {
			return "TRUE"
		}
		return "FALSE"
	default:
		return toString(value)
	}
}

func formatXLSError(value interface{}) string {
	switch v := value.(type) {
	case byte:
		if text, ok := xlrd.ErrorTextFromCode[v]; ok {
			return text
		}
	case int:
		if text, ok := xlrd.ErrorTextFromCode[byte(v)]; ok {
			return text
		}
	}
	return "#ERROR"
}

func toString(value interface{}) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
