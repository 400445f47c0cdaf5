// Package report renders work-log exports as xlsx workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"workshop/internal/models"
)

// SheetName is the worksheet holding the work logs
const SheetName = "Work logs"

var header = []interface{}{"Date", "Employee", "Order", "Work type", "Quantity", "Rate", "Total"}

// WorkLogs renders rows as a workbook with a header and a grand total line
func WorkLogs(rows []models.WorkLogReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	var total float64
	for i, r := range rows {
		line := []interface{}{
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.EmployeeName,
			r.OrderNumber,
			r.WorkType,
			r.MetricAmount,
			r.Rate,
			r.TotalAmount,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &line); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		total += r.TotalAmount
	}

	totalRow := len(rows) + 2
	if err := f.SetCellValue(SheetName, fmt.Sprintf("F%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, fmt.Sprintf("G%d", totalRow), total); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	_ = f.SetRowStyle(SheetName, 1, 1, bold)
	_ = f.SetRowStyle(SheetName, totalRow, totalRow, bold)
	_ = f.SetColWidth(SheetName, "A", "A", 18)
	_ = f.SetColWidth(SheetName, "B", "B", 24)
	_ = f.SetColWidth(SheetName, "D", "D", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
