package ports

import (
	"sheetdash/domain/grid"
)

// WorkbookDecoder turns spreadsheet bytes into a raw workbook, dispatching on
// the file extension. A failed decode returns an error and nothing else; the
// caller's current workbook is its own to keep.
type WorkbookDecoder interface {
	// DecodeFile reads and decodes the file at path
	DecodeFile(path string) (*grid.Workbook, error)

	// Decode decodes in-memory content, using filename only to pick the format
	Decode(filename string, data []byte) (*grid.Workbook, error)
}
