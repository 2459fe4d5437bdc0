package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the wire encoding of a plan file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the encoding from the file extension. JSON is the
// default for unknown extensions.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// PlanSchema is the top-level structure for plan import and export.
// Refs are file-local identifiers; the importer assigns real IDs.
type PlanSchema struct {
	Project      ProjectPlan      `json:"project" yaml:"project"`
	Phases       []PhasePlan      `json:"phases" yaml:"phases"`
	Dependencies []DependencyPlan `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	People       []PersonPlan     `json:"people,omitempty" yaml:"people,omitempty"`
	Assignments  []AssignmentPlan `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

type ProjectPlan struct {
	ShortID    string  `json:"short_id" yaml:"short_id"`
	Name       string  `json:"name" yaml:"name"`
	StartDate  string  `json:"start_date" yaml:"start_date"`
	TargetDate *string `json:"target_date,omitempty" yaml:"target_date,omitempty"`
}

type PhasePlan struct {
	Ref       string `json:"ref" yaml:"ref"`
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	Order     int    `json:"order,omitempty" yaml:"order,omitempty"`
}

type DependencyPlan struct {
	PredecessorRef string `json:"predecessor_ref" yaml:"predecessor_ref"`
	SuccessorRef   string `json:"successor_ref" yaml:"successor_ref"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty"`
	LagDays        int    `json:"lag_days,omitempty" yaml:"lag_days,omitempty"`
}

type PersonPlan struct {
	Ref         string   `json:"ref" yaml:"ref"`
	Name        string   `json:"name" yaml:"name"`
	Role        string   `json:"role,omitempty" yaml:"role,omitempty"`
	WeeklyHours *float64 `json:"weekly_hours,omitempty" yaml:"weekly_hours,omitempty"`
}

type AssignmentPlan struct {
	PersonRef     string `json:"person_ref" yaml:"person_ref"`
	Role          string `json:"role,omitempty" yaml:"role,omitempty"`
	AllocationPct *int   `json:"allocation_pct,omitempty" yaml:"allocation_pct,omitempty"`
	StartDate     string `json:"start_date" yaml:"start_date"`
	EndDate       string `json:"end_date" yaml:"end_date"`
}

// LoadPlanSchema reads and parses a plan file, picking the decoder from
// the extension.
func LoadPlanSchema(path string) (*PlanSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlanSchema(data, FormatForPath(path))
}

// ParsePlanSchema decodes plan bytes in the given format.
func ParsePlanSchema(data []byte, format Format) (*PlanSchema, error) {
	var schema PlanSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing plan YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing plan JSON: %w", err)
		}
	}
	return &schema, nil
}

// MarshalPlanSchema encodes a plan in the given format. JSON output is
// indented for hand editing.
func MarshalPlanSchema(schema *PlanSchema, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("encoding plan YAML: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding plan JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
}
