package analytics

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetMetrics       = "Metrics"
	sheetTrends        = "Trends"
	sheetDistributions = "Distributions"
	sheetComparisons   = "Comparisons"
)

// ExportToExcel renders a result as an xlsx workbook with one sheet per
// section and returns the file bytes with a suggested filename.
func ExportToExcel(result *AnalyticsResult, q Query) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet is renamed rather than left empty.
	if err := f.SetSheetName("Sheet1", sheetMetrics); err != nil {
		return nil, "", err
	}
	for _, name := range []string{sheetTrends, sheetDistributions, sheetComparisons} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, "", err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	m := result.Metrics
	metricRows := [][]interface{}{
		metricRow("Total Forms", m.TotalForms),
		metricRow("Completed Forms", m.CompletedForms),
		metricRow("Completion Rate (%)", m.CompletionRate),
		metricRow("Avg Completion Time (min)", m.AvgCompletionTime),
		metricRow("Active Users", m.ActiveUsers),
	}
	if err := writeTable(f, sheetMetrics, headerStyle, []string{"Metric", "Current", "Previous", "Change (%)"}, metricRows); err != nil {
		return nil, "", err
	}

	var trendRows [][]interface{}
	for i, p := range result.Trends.FormCreation {
		row := []interface{}{p.Period, p.Value, "", ""}
		if i < len(result.Trends.FormCompletion) {
			row[2] = result.Trends.FormCompletion[i].Value
		}
		if i < len(result.Trends.UserActivity) {
			row[3] = result.Trends.UserActivity[i].Value
		}
		trendRows = append(trendRows, row)
	}
	if err := writeTable(f, sheetTrends, headerStyle, []string{"Period", "Forms Created", "Forms Completed", "Active Users"}, trendRows); err != nil {
		return nil, "", err
	}

	var distRows [][]interface{}
	for _, d := range result.Distributions.StatusDistribution {
		distRows = append(distRows, []interface{}{"Status", d.Label, d.Count, d.Percentage})
	}
	for _, d := range result.Distributions.WorksiteDistribution {
		distRows = append(distRows, []interface{}{"Worksite", d.Label, d.Count, d.Percentage})
	}
	if err := writeTable(f, sheetDistributions, headerStyle, []string{"Dimension", "Label", "Count", "Percentage"}, distRows); err != nil {
		return nil, "", err
	}

	var cmpRows [][]interface{}
	for _, c := range result.Comparisons.PeriodComparison {
		cmpRows = append(cmpRows, []interface{}{c.Category, c.Current, c.Previous})
	}
	if err := writeTable(f, sheetComparisons, headerStyle, []string{"Category", "Current", "Previous"}, cmpRows); err != nil {
		return nil, "", err
	}

	f.SetActiveSheet(0)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("analytics_%s_%s_%s.xlsx",
		q.Start.Format("20060102"), q.End.Format("20060102"), q.Granularity)
	return buffer.Bytes(), filename, nil
}

func metricRow(name string, v MetricValue) []interface{} {
	row := []interface{}{name, v.Current, v.Previous, ""}
	if v.ChangePercentage != nil {
		row[3] = round(*v.ChangePercentage, 1)
	}
	return row
}

func writeTable(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]interface{}) error {
	for i, col := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	for i := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, 15); err != nil {
			return err
		}
	}
	return nil
}
