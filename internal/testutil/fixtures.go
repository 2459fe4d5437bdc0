package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithTargetDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.TargetDate = &d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: now.AddDate(0, -1, 0),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase options
type PhaseOption func(*domain.Phase)

func WithColor(c string) PhaseOption {
	return func(p *domain.Phase) {
		p.Color = c
	}
}

func WithPhaseOrder(i int) PhaseOption {
	return func(p *domain.Phase) {
		p.OrderIndex = i
	}
}

// Date builds a local-midnight time from year, month, day. Phase and
// dependency tests pass these around constantly, so the shorthand
// lives here.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func NewTestPhase(projectID, name string, start, end time.Time, opts ...PhaseOption) *domain.Phase {
	now := time.Now().UTC()
	p := &domain.Phase{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Color:     "#3b82f6",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dependency options
type DependencyOption func(*domain.Dependency)

func WithDepType(t domain.DependencyType) DependencyOption {
	return func(d *domain.Dependency) {
		d.Type = t
	}
}

func WithLagDays(lag int) DependencyOption {
	return func(d *domain.Dependency) {
		d.LagDays = lag
	}
}

func NewTestDependency(projectID, predecessorID, successorID string, opts ...DependencyOption) *domain.Dependency {
	d := &domain.Dependency{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		PredecessorID: predecessorID,
		SuccessorID:   successorID,
		Type:          domain.FinishToStart,
		CreatedAt:     time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Person options
type PersonOption func(*domain.Person)

func WithRole(role string) PersonOption {
	return func(p *domain.Person) {
		p.Role = role
	}
}

func WithWeeklyHours(h float64) PersonOption {
	return func(p *domain.Person) {
		p.WeeklyHours = h
	}
}

func WithPersonStatus(s domain.PersonStatus) PersonOption {
	return func(p *domain.Person) {
		p.Status = s
	}
}

func NewTestPerson(name string, opts ...PersonOption) *domain.Person {
	now := time.Now().UTC()
	p := &domain.Person{
		ID:          uuid.New().String(),
		Name:        name,
		Role:        "engineer",
		WeeklyHours: 40,
		Status:      domain.PersonActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Assignment options
type AssignmentOption func(*domain.Assignment)

func WithAllocation(pct int) AssignmentOption {
	return func(a *domain.Assignment) {
		a.AllocationPct = pct
	}
}

func WithAssignmentRole(role string) AssignmentOption {
	return func(a *domain.Assignment) {
		a.Role = role
	}
}

func NewTestAssignment(projectID, personID string, start, end time.Time, opts ...AssignmentOption) *domain.Assignment {
	now := time.Now().UTC()
	a := &domain.Assignment{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		PersonID:      personID,
		Role:          "engineer",
		AllocationPct: 100,
		StartDate:     start,
		EndDate:       end,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
