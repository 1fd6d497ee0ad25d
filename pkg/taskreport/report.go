// Package taskreport renders the task board as a styled Excel workbook: a
// summary sheet, the task table, and an optional hidden metadata sheet.
package taskreport

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

// MaxExportRows caps a single export; larger boards should filter first.
const MaxExportRows = 5000

type Data struct {
	GeneratedAt time.Time
	GeneratedBy string
	Tasks       []domain.Task
	Overview    domain.TaskOverview
}

type Report struct {
	file *excelize.File
}

// Build renders the workbook described by cfg from the given data.
func Build(cfg Config, data Data) (*Report, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, cfg, data); err != nil {
		return nil, err
	}
	if err := writeTaskSheet(f, cfg, data); err != nil {
		return nil, err
	}
	if cfg.Metadata {
		if err := writeMetadataSheet(f, data); err != nil {
			return nil, err
		}
	}

	// Drop the default sheet and land on the summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex(cfg.SummaryName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return &Report{file: f}, nil
}

func (r *Report) ToBytes() ([]byte, error) {
	buf, err := r.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// File exposes the underlying workbook, mainly for tests.
func (r *Report) File() *excelize.File {
	return r.file
}

func writeSummarySheet(f *excelize.File, cfg Config, data Data) error {
	sheet := cfg.SummaryName
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	titleStyle, err := newStyle(f, cfg.TitleStyle)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", cfg.Title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	if titleStyle != 0 {
		if err := f.SetCellStyle(sheet, "A1", "B1", titleStyle); err != nil {
			return err
		}
	}

	rows := [][2]interface{}{
		{"Generated", data.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total tasks", data.Overview.Total},
		{"To do", data.Overview.ByStatus[domain.StatusTodo]},
		{"In progress", data.Overview.ByStatus[domain.StatusInProgress]},
		{"Done", data.Overview.ByStatus[domain.StatusDone]},
		{"Overdue", data.Overview.Overdue},
		{"Completion rate (%)", data.Overview.CompletionRate},
		{"Low priority", data.Overview.ByPriority[domain.PriorityLow]},
		{"Medium priority", data.Overview.ByPriority[domain.PriorityMedium]},
		{"High priority", data.Overview.ByPriority[domain.PriorityHigh]},
		{"Urgent priority", data.Overview.ByPriority[domain.PriorityUrgent]},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, row[0]); err != nil {
			return err
		}
		cell, err = excelize.CoordinatesToCellName(2, i+3)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, row[1]); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 22)
}

func writeTaskSheet(f *excelize.File, cfg Config, data Data) error {
	sheet := cfg.TaskName
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headerStyle, err := newStyle(f, cfg.HeaderStyle)
	if err != nil {
		return err
	}
	for i, col := range cfg.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
		if col.Width > 0 {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return err
			}
		}
	}
	if headerStyle != 0 && len(cfg.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(cfg.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	now := data.GeneratedAt
	for rowIdx, task := range data.Tasks {
		if rowIdx >= MaxExportRows {
			break
		}
		for colIdx, col := range cfg.Columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, fieldValue(&task, col.Field, now)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMetadataSheet(f *excelize.File, data Data) error {
	const sheet = "Metadata"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][2]interface{}{
		{"GeneratedAt", data.GeneratedAt.Format(time.RFC3339)},
		{"GeneratedBy", data.GeneratedBy},
		{"RowCount", len(data.Tasks)},
	}
	for i, row := range rows {
		keyCell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, keyCell, row[0]); err != nil {
			return err
		}
		valCell, err := excelize.CoordinatesToCellName(2, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valCell, row[1]); err != nil {
			return err
		}
	}
	return f.SetSheetVisible(sheet, false)
}

func fieldValue(t *domain.Task, field string, now time.Time) interface{} {
	switch field {
	case "id":
		return t.ID
	case "title":
		return t.Title
	case "description":
		return t.Description
	case "status":
		return string(t.Status)
	case "priority":
		return string(t.Priority)
	case "dueDate":
		if t.DueDate == nil {
			return ""
		}
		return t.DueDate.Format("2006-01-02 15:04")
	case "tags":
		return strings.Join(t.Tags, ", ")
	case "assignee":
		return t.AssigneeID
	case "createdBy":
		return t.CreatedByID
	case "createdAt":
		return t.CreatedAt.Format("2006-01-02 15:04")
	case "overdue":
		return t.IsOverdue(now)
	}
	return ""
}

func newStyle(f *excelize.File, cfg StyleConfig) (int, error) {
	if !cfg.Bold && cfg.FontColor == "" && cfg.FillColor == "" {
		return 0, nil
	}
	style := &excelize.Style{}
	if cfg.Bold || cfg.FontColor != "" {
		style.Font = &excelize.Font{Bold: cfg.Bold, Color: cfg.FontColor}
	}
	if cfg.FillColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{cfg.FillColor}}
	}
	return f.NewStyle(style)
}
