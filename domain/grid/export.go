package grid

import (
	"encoding/json"
	"fmt"
	"strings"

	"sheetdash/internal/errors"
)

// Export formats understood by ExportFilename and the service layer.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportFilename derives the download name for a sheet's export
func ExportFilename(sheet, format string) string {
	return fmt.Sprintf("%s_data.%s", sheet, format)
}

// ToDelimitedText serializes the selected columns as comma-delimited text:
// a header line, then one line per record. Values containing the delimiter,
// a double quote or a line break are quoted with internal quotes doubled.
// Missing values render as empty strings. A nil selection exports every
// column; selecting a column rs does not have is a caller bug.
func ToDelimitedText(rs RecordSet, selectedColumns []string) (string, error) {
	columns, err := resolveColumns(rs, selectedColumns)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, column := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeDelimited(column))
	}
	b.WriteByte('\n')

	for _, record := range rs.Records {
		for i, column := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeDelimited(record[column]))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// escapeDelimited quotes a value when it contains the delimiter, a quote,
// or a line break, doubling internal quotes.
func escapeDelimited(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// ToStructuredText serializes the selected columns as an indented JSON
// array of objects. Keys keep the selection order; blank and missing values
// serialize as "" consistently. A nil selection exports every column.
func ToStructuredText(rs RecordSet, selectedColumns []string) (string, error) {
	columns, err := resolveColumns(rs, selectedColumns)
	if err != nil {
		return "", err
	}

	if len(rs.Records) == 0 {
		return "[]", nil
	}

	var b strings.Builder
	b.WriteString("[")
	for i, record := range rs.Records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  {")
		for j, column := range columns {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n    ")
			b.WriteString(jsonString(column))
			b.WriteString(": ")
			b.WriteString(jsonString(record[column]))
		}
		b.WriteString("\n  }")
	}
	b.WriteString("\n]")
	return b.String(), nil
}

// jsonString renders s as a JSON string literal
func jsonString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}

// resolveColumns validates a column selection, defaulting to all columns
func resolveColumns(rs RecordSet, selected []string) ([]string, error) {
	if len(selected) == 0 {
		return rs.Columns, nil
	}
	for _, column := range selected {
		if !rs.HasColumn(column) {
			return nil, errors.UnknownColumn(column)
		}
	}
	return selected, nil
}
