package analytics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportToExcel(t *testing.T) {
	q := fixtureQuery()
	data, filename, err := ExportToExcel(Aggregate(q, fixture()), q)
	require.NoError(t, err)
	assert.Equal(t, "analytics_20240101_20240105_day.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Metrics", "Trends", "Distributions", "Comparisons"}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Metric", cell("Metrics", "A1"))
	assert.Equal(t, "Total Forms", cell("Metrics", "A2"))
	assert.Equal(t, "4", cell("Metrics", "B2"))
	assert.Equal(t, "100", cell("Metrics", "D2"))

	assert.Equal(t, "2024-01-01", cell("Trends", "A2"))
	assert.Equal(t, "2024-01-04", cell("Trends", "A5"))
	assert.Equal(t, "", cell("Trends", "A6"))

	assert.Equal(t, "Status", cell("Distributions", "A2"))
	assert.Equal(t, "completed", cell("Distributions", "B2"))

	assert.Equal(t, "Active Users", cell("Comparisons", "A6"))
}
