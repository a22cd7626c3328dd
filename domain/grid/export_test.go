package grid

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdash/internal/errors"
)

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "orders_data.csv", ExportFilename("orders", FormatCSV))
	assert.Equal(t, "Sheet1_data.json", ExportFilename("Sheet1", FormatJSON))
}

func TestToDelimitedTextBasic(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Score"},
		{"Ana", "85"},
		{"Bo", "91"},
	})

	out, err := ToDelimitedText(rs, nil)

	require.NoError(t, err)
	assert.Equal(t, "Name,Score\nAna,85\nBo,91\n", out)
}

func TestToDelimitedTextQuoting(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Company", "Note"},
		{`Acme, "Inc."`, "plain"},
		{"line\nbreak", `say "hi"`},
	})

	out, err := ToDelimitedText(rs, nil)

	require.NoError(t, err)
	lines := strings.SplitN(out, "\n", 2)
	assert.Equal(t, "Company,Note", lines[0])
	assert.Contains(t, out, `"Acme, ""Inc.""",plain`)
	assert.Contains(t, out, `"line`+"\n"+`break","say ""hi"""`)
}

func TestToDelimitedTextRoundTrips(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Company", "City"},
		{`Acme, "Inc."`, "Oslo"},
		{"Plain Co", "a\nb"},
	})

	out, err := ToDelimitedText(rs, nil)
	require.NoError(t, err)

	parsed, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err, "A standard reader must accept the output")
	require.Len(t, parsed, 3)
	assert.Equal(t, []string{"Company", "City"}, parsed[0])
	assert.Equal(t, []string{`Acme, "Inc."`, "Oslo"}, parsed[1])
	assert.Equal(t, []string{"Plain Co", "a\nb"}, parsed[2])
}

func TestToDelimitedTextColumnSelection(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Dept", "Score"},
		{"Ana", "Eng", "85"},
	})

	out, err := ToDelimitedText(rs, []string{"Score", "Name"})

	require.NoError(t, err)
	assert.Equal(t, "Score,Name\n85,Ana\n", out, "The selection sets the column order")
}

func TestToDelimitedTextMissingValuesRenderEmpty(t *testing.T) {
	rs := Normalize(RawSheet{
		{"A", "B", "C"},
		{"1"},
	})

	out, err := ToDelimitedText(rs, nil)

	require.NoError(t, err)
	assert.Equal(t, "A,B,C\n1,,\n", out)
}

func TestToDelimitedTextUnknownColumn(t *testing.T) {
	rs := Normalize(RawSheet{{"A"}, {"1"}})

	_, err := ToDelimitedText(rs, []string{"Nope"})

	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))
}

func TestToStructuredTextBasic(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Score"},
		{"Ana", "85"},
		{"Bo", ""},
	})

	out, err := ToStructuredText(rs, nil)

	require.NoError(t, err)
	expected := "[\n" +
		"  {\n    \"Name\": \"Ana\",\n    \"Score\": \"85\"\n  },\n" +
		"  {\n    \"Name\": \"Bo\",\n    \"Score\": \"\"\n  }\n" +
		"]"
	assert.Equal(t, expected, out)
}

func TestToStructuredTextIsValidAndOrdered(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Dept", "Score"},
		{"Ana", "Eng", "85"},
	})

	out, err := ToStructuredText(rs, []string{"Score", "Name"})
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, map[string]string{"Score": "85", "Name": "Ana"}, parsed[0],
		"Only the selected columns appear")

	scoreAt := strings.Index(out, `"Score"`)
	nameAt := strings.Index(out, `"Name"`)
	assert.Less(t, scoreAt, nameAt, "Keys keep the selection order")
}

func TestToStructuredTextEscapesValues(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Note"},
		{`say "hi"` + "\n"},
	})

	out, err := ToStructuredText(rs, nil)
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, `say "hi"`+"\n", parsed[0]["Note"])
}

func TestToStructuredTextEmptyRecordSet(t *testing.T) {
	rs := Normalize(RawSheet{{"A", "B"}})

	out, err := ToStructuredText(rs, nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestToStructuredTextUnknownColumn(t *testing.T) {
	rs := Normalize(RawSheet{{"A"}, {"1"}})

	_, err := ToStructuredText(rs, []string{"Nope"})

	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))
}
