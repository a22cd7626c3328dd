package grid

import "fmt"

// Normalize converts a raw sheet into a RecordSet. The header row defines
// the column order verbatim, blank labels included. Short rows are padded
// with empty strings, rows longer than the header are cut at the header
// width, and a row whose every mapped cell is empty contributes no Record.
//
// Duplicate header labels are disambiguated rather than silently merged:
// the first occurrence keeps its label, later ones become "<label> (2)",
// "<label> (3)" and so on.
//
// Normalize is a pure function; the input is never modified.
func Normalize(raw RawSheet) RecordSet {
	if len(raw) == 0 {
		return RecordSet{Columns: []string{}}
	}

	columns := disambiguateHeaders(raw[0])

	records := make([]Record, 0, len(raw)-1)
	for _, row := range raw[1:] {
		record := make(Record, len(columns))
		empty := true
		for i, column := range columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			if value != "" {
				empty = false
			}
			record[column] = value
		}
		if empty {
			continue
		}
		records = append(records, record)
	}

	return RecordSet{Columns: columns, Records: records}
}

// disambiguateHeaders resolves duplicate labels so each column has a unique
// name. Labels are otherwise kept exactly as decoded.
func disambiguateHeaders(header []string) []string {
	columns := make([]string, 0, len(header))
	used := make(map[string]bool, len(header))
	for _, label := range header {
		name := label
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s (%d)", label, n)
		}
		used[name] = true
		columns = append(columns, name)
	}
	return columns
}
