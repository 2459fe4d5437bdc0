package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarrant/phaseline/internal/domain"
)

func validSchema() *PlanSchema {
	return &PlanSchema{
		Project: ProjectPlan{ShortID: "WEB", Name: "Website", StartDate: "2025-01-01"},
		Phases: []PhasePlan{
			{Ref: "a", Name: "Discovery", StartDate: "2025-01-01", EndDate: "2025-01-31"},
			{Ref: "b", Name: "Build", StartDate: "2025-02-03", EndDate: "2025-03-28"},
		},
		Dependencies: []DependencyPlan{
			{PredecessorRef: "a", SuccessorRef: "b", Type: "FS"},
		},
		People: []PersonPlan{
			{Ref: "dana", Name: "Dana", Role: "designer"},
		},
		Assignments: []AssignmentPlan{
			{PersonRef: "dana", Role: "designer", StartDate: "2025-01-01", EndDate: "2025-03-28"},
		},
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("plan.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("plan.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("plan.json"))
	assert.Equal(t, FormatJSON, FormatForPath("plan"))
}

func TestParsePlanSchema_RoundTripsBothFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := MarshalPlanSchema(validSchema(), format)
		require.NoError(t, err)

		parsed, err := ParsePlanSchema(data, format)
		require.NoError(t, err)
		assert.Equal(t, "WEB", parsed.Project.ShortID)
		assert.Len(t, parsed.Phases, 2)
		assert.Len(t, parsed.Dependencies, 1)
	}
}

func TestValidatePlanSchema_AcceptsValid(t *testing.T) {
	assert.Empty(t, ValidatePlanSchema(validSchema()))
}

func TestValidatePlanSchema_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*PlanSchema)
		wantErr string
	}{
		{"missing short id", func(s *PlanSchema) { s.Project.ShortID = "" }, "short_id"},
		{"no phases", func(s *PlanSchema) { s.Phases = nil }, "phase"},
		{"duplicate ref", func(s *PlanSchema) { s.Phases[1].Ref = "a" }, "duplicate"},
		{"bad date", func(s *PlanSchema) { s.Phases[0].StartDate = "Jan 1" }, "start_date"},
		{"end before start", func(s *PlanSchema) { s.Phases[0].EndDate = "2024-12-01" }, "end_date"},
		{"unknown dep ref", func(s *PlanSchema) { s.Dependencies[0].SuccessorRef = "zz" }, "zz"},
		{"self dependency", func(s *PlanSchema) { s.Dependencies[0].SuccessorRef = "a" }, "self-dependency"},
		{"bad dep type", func(s *PlanSchema) { s.Dependencies[0].Type = "XX" }, "type"},
		{"unknown person ref", func(s *PlanSchema) { s.Assignments[0].PersonRef = "zz" }, "zz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := validSchema()
			tc.mutate(schema)
			errs := ValidatePlanSchema(schema)
			require.NotEmpty(t, errs)

			var found bool
			for _, err := range errs {
				if strings.Contains(err.Error(), tc.wantErr) {
					found = true
					break
				}
			}
			assert.True(t, found, "expected an error mentioning %q, got %v", tc.wantErr, errs)
		})
	}
}

func TestValidatePlanSchema_RejectsDependencyCycle(t *testing.T) {
	schema := validSchema()
	schema.Dependencies = append(schema.Dependencies, DependencyPlan{
		PredecessorRef: "b", SuccessorRef: "a",
	})
	errs := ValidatePlanSchema(schema)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "circular dependency")
}

func TestConvert_ResolvesRefsAndDefaults(t *testing.T) {
	schema := validSchema()
	plan, err := Convert(schema)
	require.NoError(t, err)

	assert.Equal(t, "WEB", plan.Project.ShortID)
	require.Len(t, plan.Phases, 2)
	assert.NotEmpty(t, plan.Phases[0].ID)
	assert.Equal(t, plan.Project.ID, plan.Phases[0].ProjectID)

	require.Len(t, plan.Dependencies, 1)
	assert.Equal(t, plan.Phases[0].ID, plan.Dependencies[0].PredecessorID)
	assert.Equal(t, plan.Phases[1].ID, plan.Dependencies[0].SuccessorID)
	assert.Equal(t, domain.FinishToStart, plan.Dependencies[0].Type)

	require.Len(t, plan.People, 1)
	assert.Equal(t, 40.0, plan.People[0].WeeklyHours)

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, plan.People[0].ID, plan.Assignments[0].PersonID)
	assert.Equal(t, 100, plan.Assignments[0].AllocationPct)
}
