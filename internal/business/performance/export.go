package performance

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetScheduled = "P นัดผ่าตัด"
	SheetActual    = "L ผ่าตัดจริง"
	SheetRevenue   = "Revenue"
)

// ExportXLSX renders a month report as a workbook with one calendar sheet
// per table. The caller owns the returned file and must Close it.
func ExportXLSX(report MonthReport) (*excelize.File, error) {
	if report.DaysInMonth <= 0 {
		return nil, errors.New("report has no days")
	}
	wb := excelize.NewFile()

	header, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		wb.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	title := fmt.Sprintf("%02d/%d", int(report.Month), report.Year)
	if err := writeCountSheet(wb, SheetScheduled, title, report.Scheduled, report.DaysInMonth, header); err != nil {
		wb.Close()
		return nil, err
	}
	if err := writeCountSheet(wb, SheetActual, title, report.Actual, report.DaysInMonth, header); err != nil {
		wb.Close()
		return nil, err
	}
	if err := writeRevenueSheet(wb, SheetRevenue, title, report.Revenue, report.DaysInMonth, header); err != nil {
		wb.Close()
		return nil, err
	}

	// NewFile starts with Sheet1.
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		wb.Close()
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	if idx, err := wb.GetSheetIndex(SheetScheduled); err == nil {
		wb.SetActiveSheet(idx)
	}
	return wb, nil
}

func dayHeader(days int, extra ...string) []interface{} {
	row := make([]interface{}, 0, days+1+len(extra))
	row = append(row, "Row")
	for d := 1; d <= days; d++ {
		row = append(row, d)
	}
	for _, e := range extra {
		row = append(row, e)
	}
	return row
}

func writeCountSheet(wb *excelize.File, sheet, title string, table CountTableReport, days int, headerStyle int) error {
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := wb.SetCellValue(sheet, "A1", fmt.Sprintf("%s %s", table.Table, title)); err != nil {
		return err
	}
	header := dayHeader(days, "Total", "KPI Month", "KPI To Date", "Diff")
	if err := setRow(wb, sheet, 3, header); err != nil {
		return err
	}
	if err := styleRow(wb, sheet, 3, len(header), headerStyle); err != nil {
		return err
	}

	r := 4
	for _, row := range table.Rows {
		values := make([]interface{}, 0, len(header))
		values = append(values, row.Label)
		for _, n := range row.Days {
			values = append(values, blankZero(n))
		}
		values = append(values, row.Total)
		if row.KPI != nil {
			values = append(values, row.KPI.MonthlyTarget, row.KPI.ProratedTarget, row.KPI.Diff)
		}
		if err := setRow(wb, sheet, r, values); err != nil {
			return err
		}
		r++
	}

	totals := make([]interface{}, 0, days+2)
	totals = append(totals, "Total")
	for _, n := range table.DayTotals {
		totals = append(totals, n)
	}
	totals = append(totals, table.Total)
	return setRow(wb, sheet, r, totals)
}

func writeRevenueSheet(wb *excelize.File, sheet, title string, table RevenueTableReport, days int, headerStyle int) error {
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := wb.SetCellValue(sheet, "A1", fmt.Sprintf("Revenue %s", title)); err != nil {
		return err
	}
	header := dayHeader(days, "Total")
	if err := setRow(wb, sheet, 3, header); err != nil {
		return err
	}
	if err := styleRow(wb, sheet, 3, len(header), headerStyle); err != nil {
		return err
	}

	r := 4
	for _, row := range table.Rows {
		values := make([]interface{}, 0, len(header))
		values = append(values, row.Label)
		for _, v := range row.Days {
			if v == 0 {
				values = append(values, nil)
				continue
			}
			values = append(values, v)
		}
		values = append(values, row.Total)
		if err := setRow(wb, sheet, r, values); err != nil {
			return err
		}
		r++
	}

	totals := make([]interface{}, 0, days+2)
	totals = append(totals, "Total")
	for _, v := range table.DayTotals {
		totals = append(totals, v)
	}
	totals = append(totals, table.Total)
	return setRow(wb, sheet, r, totals)
}

func setRow(wb *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRow(wb *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return wb.SetCellStyle(sheet, first, last, style)
}

// blankZero leaves empty calendar cells blank, as the dashboard does.
func blankZero(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
