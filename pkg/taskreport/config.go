package taskreport

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config describes the workbook layout. It can be loaded from a YAML file so
// deployments can reorder or drop columns without a rebuild.
type Config struct {
	Title       string         `yaml:"title"`
	SummaryName string         `yaml:"summary_sheet"`
	TaskName    string         `yaml:"task_sheet"`
	Columns     []ColumnConfig `yaml:"columns"`
	TitleStyle  StyleConfig    `yaml:"title_style"`
	HeaderStyle StyleConfig    `yaml:"header_style"`
	// Metadata adds a hidden sheet with generation details.
	Metadata bool `yaml:"metadata"`
}

type ColumnConfig struct {
	// Field names a task attribute: id, title, status, priority, dueDate,
	// tags, assignee, createdBy, createdAt, overdue.
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

type StyleConfig struct {
	Bold      bool   `yaml:"bold"`
	FontColor string `yaml:"font_color"`
	FillColor string `yaml:"fill_color"`
}

// DefaultConfig is the layout used when no YAML file is configured.
func DefaultConfig() Config {
	return Config{
		Title:       "Task Board Report",
		SummaryName: "Summary",
		TaskName:    "Tasks",
		Columns: []ColumnConfig{
			{Field: "id", Header: "ID", Width: 8},
			{Field: "title", Header: "Title", Width: 40},
			{Field: "status", Header: "Status", Width: 14},
			{Field: "priority", Header: "Priority", Width: 12},
			{Field: "dueDate", Header: "Due", Width: 18},
			{Field: "tags", Header: "Tags", Width: 25},
			{Field: "assignee", Header: "Assignee", Width: 12},
			{Field: "overdue", Header: "Overdue", Width: 10},
		},
		TitleStyle:  StyleConfig{Bold: true, FontColor: "#FFFFFF", FillColor: "#1565C0"},
		HeaderStyle: StyleConfig{Bold: true, FillColor: "#BBDEFB"},
		Metadata:    true,
	}
}

// LoadConfigFile reads a layout from YAML, filling gaps from the default.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read report config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse report config: %w", err)
	}
	if cfg.SummaryName == "" {
		cfg.SummaryName = "Summary"
	}
	if cfg.TaskName == "" {
		cfg.TaskName = "Tasks"
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = DefaultConfig().Columns
	}
	return cfg, nil
}
