package brief

import (
	"fmt"
	"strconv"
	"strings"

	"sheetdash/domain/core"
	"sheetdash/domain/grid"
)

// topValuesN caps the per-sheet category table
const topValuesN = 5

// Brief is the workbook's markdown-ready report: one section per sheet
// with its shape, column kinds, headline metrics and leading category.
type Brief struct {
	Source    string
	Generated core.Timestamp
	Sheets    []SheetSection
}

// SheetSection is the brief's view of one sheet
type SheetSection struct {
	Name        string
	Rows        int
	Columns     int
	Numeric     []string
	Categorical []string
	Empty       []string
	KPIs        []grid.KPI
	TopColumn   string
	TopValues   grid.AggregationResult
}

// Build derives a Brief from the workbook. Sheets keep their source order;
// sheets with no records still get a section so the reader sees them.
func Build(source string, wb *grid.Workbook) Brief {
	b := Brief{Source: source, Generated: core.Now()}

	for _, name := range wb.Names() {
		raw, _ := wb.Sheet(name)
		rs := grid.Normalize(raw)
		c := grid.Classify(rs)

		section := SheetSection{
			Name:        name,
			Rows:        rs.Len(),
			Columns:     len(rs.Columns),
			Numeric:     c.Numeric,
			Categorical: c.Categorical,
			Empty:       emptyColumns(rs.Columns, c),
			KPIs:        grid.KPIRow(rs, c),
		}

		if len(c.Categorical) > 0 {
			if top, err := grid.Frequency(rs, c.Categorical[0], topValuesN); err == nil {
				section.TopColumn = c.Categorical[0]
				section.TopValues = top
			}
		}

		b.Sheets = append(b.Sheets, section)
	}
	return b
}

// Markdown renders the brief as a markdown document
func (b Brief) Markdown() string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Data Brief: %s\n\n", b.Source))
	md.WriteString(fmt.Sprintf("Generated %s. %d sheet(s).\n", b.Generated.String(), len(b.Sheets)))

	for _, section := range b.Sheets {
		md.WriteString(fmt.Sprintf("\n## %s\n\n", section.Name))
		md.WriteString(fmt.Sprintf("%d rows, %d columns.\n", section.Rows, section.Columns))

		writeColumnList(&md, "Numeric", section.Numeric)
		writeColumnList(&md, "Categorical", section.Categorical)
		writeColumnList(&md, "Empty", section.Empty)

		if len(section.KPIs) > 0 {
			md.WriteString("\n| Metric | Value |\n|---|---|\n")
			for _, kpi := range section.KPIs {
				md.WriteString(fmt.Sprintf("| %s | %s |\n", kpi.Label, formatNumber(kpi.Value)))
			}
		}

		if len(section.TopValues) > 0 {
			md.WriteString(fmt.Sprintf("\n### Top %s\n\n", section.TopColumn))
			md.WriteString("| Value | Count |\n|---|---|\n")
			for _, entry := range section.TopValues {
				md.WriteString(fmt.Sprintf("| %s | %s |\n", entry.Label, formatNumber(entry.Value)))
			}
		}
	}
	return md.String()
}

func writeColumnList(md *strings.Builder, label string, columns []string) {
	if len(columns) == 0 {
		return
	}
	md.WriteString(fmt.Sprintf("- %s: %s\n", label, strings.Join(columns, ", ")))
}

// emptyColumns lists the columns the classifier assigned no kind
func emptyColumns(columns []string, c grid.Classification) []string {
	var out []string
	for _, column := range columns {
		if c.KindOf(column) == grid.KindEmpty {
			out = append(out, column)
		}
	}
	return out
}

// formatNumber renders a value without trailing float noise
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
