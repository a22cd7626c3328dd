package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetdash/domain/grid"
	"sheetdash/internal/errors"
)

// DataReader decodes spreadsheet files into raw workbooks. It handles
// .xlsx, legacy .xls and single-sheet .csv files, picking the decoder from
// the file extension.
type DataReader struct{}

// NewDataReader creates a new data reader
func NewDataReader() *DataReader {
	return &DataReader{}
}

// DecodeFile reads and decodes the file at path
func (r *DataReader) DecodeFile(path string) (*grid.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.DecodeFailed(path, fmt.Errorf("file not found: %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.DecodeFailed(path, err)
	}
	return r.Decode(filepath.Base(path), data)
}

// Decode decodes in-memory content, using filename only to pick the format
func (r *DataReader) Decode(filename string, data []byte) (*grid.Workbook, error) {
	start := time.Now()

	var (
		wb  *grid.Workbook
		err error
	)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		wb, err = decodeXLSX(data)
	case ".xls":
		wb, err = decodeXLS(data)
	case ".csv":
		wb, err = decodeCSV(filename, data)
	default:
		err = fmt.Errorf("unsupported file type: %q", ext)
	}
	if err != nil {
		return nil, errors.DecodeFailed(filename, err)
	}

	log.Printf("[DataReader] %s decoded in %.2fms (%d sheets)",
		filename, float64(time.Since(start).Nanoseconds())/1e6, wb.Len())
	return wb, nil
}

// decodeXLSX reads every sheet of an OOXML workbook in sheet order
func decodeXLSX(data []byte) (*grid.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb := grid.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.Add(name, rows)
	}
	if wb.Len() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return wb, nil
}

// decodeCSV reads a csv file as a one-sheet workbook named after the file.
// Ragged rows are allowed; the normalizer squares them off later.
func decodeCSV(filename string, data []byte) (*grid.Workbook, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	wb := grid.NewWorkbook()
	wb.Add(csvSheetName(filename), rows)
	return wb, nil
}

// csvSheetName derives the single sheet's name from the file name
func csvSheetName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == "-" {
		return "data"
	}
	return base
}
