package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/granularity"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/timeline"
)

type reportService struct {
	phases      repository.PhaseRepo
	assignments repository.AssignmentRepo
	people      repository.PersonRepo
}

func NewReportService(phases repository.PhaseRepo, assignments repository.AssignmentRepo, people repository.PersonRepo) ReportService {
	return &reportService{phases: phases, assignments: assignments, people: people}
}

func (s *reportService) Demand(ctx context.Context, projectID string) (*DemandReport, error) {
	start, end, err := s.projectSpan(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.demand(ctx, projectID, start, end)
}

func (s *reportService) DemandRange(ctx context.Context, projectID string, startIndex, endIndex int) (*DemandReport, error) {
	spanStart, spanEnd, err := s.projectSpan(ctx, projectID)
	if err != nil {
		return nil, err
	}
	start, end, _ := granularity.BrushRange(spanStart, spanEnd, startIndex, endIndex)
	return s.demand(ctx, projectID, start, end)
}

func (s *reportService) demand(ctx context.Context, projectID string, start, end time.Time) (*DemandReport, error) {
	assignments, err := s.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	hoursByPerson := make(map[string]float64)
	series := make(map[string][]granularity.DayValue)
	for _, a := range assignments {
		hours, ok := hoursByPerson[a.PersonID]
		if !ok {
			person, err := s.people.GetByID(ctx, a.PersonID)
			if err != nil {
				return nil, err
			}
			hours = person.WeeklyHours
			hoursByPerson[a.PersonID] = hours
		}
		appendDemandDays(series, a, hours, start, end)
	}

	g := granularity.ForRange(start, end)
	buckets := granularity.Buckets(start, end, g)
	return &DemandReport{
		Start:       start,
		End:         end,
		Granularity: g,
		Buckets:     buckets,
		Series:      granularity.Aggregate(series, buckets),
	}, nil
}

// appendDemandDays adds one assignment's daily demand in hours to its
// role's series, clipped to [start, end]. Weekly hours are spread
// evenly over calendar days so bucket averages stay comparable across
// granularities.
func appendDemandDays(series map[string][]granularity.DayValue, a *domain.Assignment, weeklyHours float64, start, end time.Time) {
	dailyHours := weeklyHours / 7 * float64(a.AllocationPct) / 100

	from := timeline.Midnight(a.StartDate)
	if from.Before(start) {
		from = start
	}
	to := timeline.Midnight(a.EndDate)
	if to.After(end) {
		to = end
	}

	for d := from; !d.After(to); d = timeline.AddDays(d, 1) {
		series[a.Role] = append(series[a.Role], granularity.DayValue{Date: d, Value: dailyHours})
	}
}

// projectSpan is the inclusive date range covered by the project's
// phases, falling back to its assignments when no phases exist.
func (s *reportService) projectSpan(ctx context.Context, projectID string) (time.Time, time.Time, error) {
	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(phases) > 0 {
		start := timeline.Midnight(phases[0].StartDate)
		end := timeline.Midnight(phases[0].EndDate)
		for _, p := range phases[1:] {
			if ps := timeline.Midnight(p.StartDate); ps.Before(start) {
				start = ps
			}
			if pe := timeline.Midnight(p.EndDate); pe.After(end) {
				end = pe
			}
		}
		return start, end, nil
	}

	assignments, err := s.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(assignments) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("project has no phases or assignments to report on")
	}
	start := timeline.Midnight(assignments[0].StartDate)
	end := timeline.Midnight(assignments[0].EndDate)
	for _, a := range assignments[1:] {
		if as := timeline.Midnight(a.StartDate); as.Before(start) {
			start = as
		}
		if ae := timeline.Midnight(a.EndDate); ae.After(end) {
			end = ae
		}
	}
	return start, end, nil
}
