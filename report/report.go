package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"projectdb/workload"

	"github.com/xuri/excelize/v2"
)

var header = []string{"Date", "Employee", "Project", "Status", "Hours", "Description"}

type Row struct {
	Date     string
	Employee string
	Project  string
	Status   workload.Status
	Hours    float64
	Text     string
}

// BuildRows flattens reconciled records into export rows ordered by date,
// then employee, then project.
func BuildRows(unified []workload.Unified, userNames, projectNames map[uint]string) []Row {
	rows := make([]Row, 0, len(unified))
	for _, u := range unified {
		row := Row{
			Date:     u.Date,
			Employee: nameOr(userNames, u.UserID, "user"),
			Project:  nameOr(projectNames, u.ProjectID, "project"),
			Status:   workload.Classify(u),
		}
		if u.HoursWorked != nil {
			row.Hours = *u.HoursWorked
		}
		if u.UserText != nil {
			row.Text = *u.UserText
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Employee != b.Employee {
			return a.Employee < b.Employee
		}
		return a.Project < b.Project
	})
	return rows
}

func nameOr(names map[uint]string, id uint, kind string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("%s #%d", kind, id)
}

func (r Row) values() []string {
	hours := ""
	if r.Status == workload.StatusCompleted || r.Status == workload.StatusOvertime {
		hours = fmt.Sprintf("%.2f", r.Hours)
	}
	return []string{r.Date, r.Employee, r.Project, string(r.Status), hours, r.Text}
}

func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(r.values()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

const sheetName = "Workloads"

func WriteXLSX(rows []Row, summary workload.Summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for i, r := range rows {
		row := i + 2
		values := []interface{}{r.Date, r.Employee, r.Project, string(r.Status), nil, r.Text}
		if r.Status == workload.StatusCompleted || r.Status == workload.StatusOvertime {
			values[4] = r.Hours
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	totalsRow := len(rows) + 3
	totals := []struct {
		label string
		value interface{}
	}{
		{"Completed", summary.Completed},
		{"Missing", summary.Missing},
		{"Overtime", summary.Overtime},
		{"Total hours", summary.TotalHours},
	}
	for i, t := range totals {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow+i), t.label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow+i), t.value)
	}

	f.SetColWidth(sheetName, "A", "E", 15)
	f.SetColWidth(sheetName, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}
