package grid

import "strings"

// prioritySheets are checked in order when picking the dashboard's default
// sheet; each is matched as a case-insensitive substring of the sheet name.
var prioritySheets = []string{"sheet1", "data", "main", "dashboard", "summary"}

// PrimarySheet picks the sheet the dashboard should open on: the first
// sheet whose name matches a priority keyword, otherwise the first sheet
// that yields at least one record. Returns false when the workbook has no
// usable sheet.
func PrimarySheet(wb *Workbook) (string, bool) {
	names := wb.Names()

	for _, priority := range prioritySheets {
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), priority) {
				return name, true
			}
		}
	}

	for _, name := range names {
		raw, _ := wb.Sheet(name)
		if Normalize(raw).Len() > 0 {
			return name, true
		}
	}
	return "", false
}
