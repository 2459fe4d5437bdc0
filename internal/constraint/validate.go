// Package constraint validates phase dates against declared
// FS/SS/FF/SF dependencies and computes deterministic corrections.
// It is independent of the timeline's geometric adjacency cascade:
// the cascade runs during interactive drag, this validator after any
// date edit.
package constraint

import (
	"fmt"
	"sort"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
)

// Violation is one broken dependency constraint, with a user-facing
// message. Violations never block other edits; callers surface them
// and offer the correction.
type Violation struct {
	Dependency domain.Dependency
	PhaseID    string
	Message    string
}

// ValidatePhase checks a phase's dates against every dependency edge
// touching it, both as successor (earliest permissible dates from its
// predecessors) and as predecessor (latest permissible dates from its
// successors).
func ValidatePhase(p *domain.Phase, phases []*domain.Phase, deps []domain.Dependency) []Violation {
	byID := phaseIndex(phases)
	var violations []Violation

	for _, d := range deps {
		switch {
		case d.SuccessorID == p.ID:
			pred, ok := byID[d.PredecessorID]
			if !ok {
				continue
			}
			if v := checkAsSuccessor(p, pred, d); v != nil {
				violations = append(violations, *v)
			}

		case d.PredecessorID == p.ID:
			succ, ok := byID[d.SuccessorID]
			if !ok {
				continue
			}
			if v := checkAsPredecessor(p, succ, d); v != nil {
				violations = append(violations, *v)
			}
		}
	}
	return violations
}

func checkAsSuccessor(p, pred *domain.Phase, d domain.Dependency) *Violation {
	lag := d.LagDays
	switch d.Type {
	case domain.FinishToStart:
		earliest := addDays(pred.EndDate, lag)
		if p.StartDate.Before(earliest) {
			return violation(d, p.ID, "%s must start on or after %s (predecessor %q ends %s%s)",
				p.Name, fmtDate(earliest), pred.Name, fmtDate(pred.EndDate), lagSuffix(lag))
		}
	case domain.StartToStart:
		earliest := addDays(pred.StartDate, lag)
		if p.StartDate.Before(earliest) {
			return violation(d, p.ID, "%s must start on or after %s (predecessor %q starts %s%s)",
				p.Name, fmtDate(earliest), pred.Name, fmtDate(pred.StartDate), lagSuffix(lag))
		}
	case domain.FinishToFinish:
		earliest := addDays(pred.EndDate, lag)
		if p.EndDate.Before(earliest) {
			return violation(d, p.ID, "%s must end on or after %s (predecessor %q ends %s%s)",
				p.Name, fmtDate(earliest), pred.Name, fmtDate(pred.EndDate), lagSuffix(lag))
		}
	case domain.StartToFinish:
		earliest := addDays(pred.StartDate, lag)
		if p.EndDate.Before(earliest) {
			return violation(d, p.ID, "%s must end on or after %s (predecessor %q starts %s%s)",
				p.Name, fmtDate(earliest), pred.Name, fmtDate(pred.StartDate), lagSuffix(lag))
		}
	}
	return nil
}

func checkAsPredecessor(p, succ *domain.Phase, d domain.Dependency) *Violation {
	lag := d.LagDays
	switch d.Type {
	case domain.FinishToStart:
		latest := addDays(succ.StartDate, -lag)
		if p.EndDate.After(latest) {
			return violation(d, p.ID, "%s must end on or before %s (successor %q starts %s%s)",
				p.Name, fmtDate(latest), succ.Name, fmtDate(succ.StartDate), lagSuffix(lag))
		}
	case domain.StartToStart:
		latest := addDays(succ.StartDate, -lag)
		if p.StartDate.After(latest) {
			return violation(d, p.ID, "%s must start on or before %s (successor %q starts %s%s)",
				p.Name, fmtDate(latest), succ.Name, fmtDate(succ.StartDate), lagSuffix(lag))
		}
	case domain.FinishToFinish:
		latest := addDays(succ.EndDate, -lag)
		if p.EndDate.After(latest) {
			return violation(d, p.ID, "%s must end on or before %s (successor %q ends %s%s)",
				p.Name, fmtDate(latest), succ.Name, fmtDate(succ.EndDate), lagSuffix(lag))
		}
	case domain.StartToFinish:
		latest := addDays(succ.EndDate, -lag)
		if p.StartDate.After(latest) {
			return violation(d, p.ID, "%s must start on or before %s (successor %q ends %s%s)",
				p.Name, fmtDate(latest), succ.Name, fmtDate(succ.EndDate), lagSuffix(lag))
		}
	}
	return nil
}

// CorrectedDates nudges a phase's dates to the nearest legal values
// while preserving its original duration. It reports whether a
// correction was needed. When earliest and latest bounds conflict, the
// successor-side (earliest) bounds win so a correction never regresses
// a predecessor chain.
func CorrectedDates(p *domain.Phase, phases []*domain.Phase, deps []domain.Dependency) (start, end time.Time, changed bool) {
	byID := phaseIndex(phases)
	duration := daysBetween(p.StartDate, p.EndDate)

	// Tightest lower and upper bounds on the start date, expressing
	// end-bounds as start-bounds via the fixed duration.
	var earliestStart, latestStart *time.Time

	raiseEarliest := func(t time.Time) {
		if earliestStart == nil || t.After(*earliestStart) {
			earliestStart = &t
		}
	}
	lowerLatest := func(t time.Time) {
		if latestStart == nil || t.Before(*latestStart) {
			latestStart = &t
		}
	}

	for _, d := range deps {
		switch {
		case d.SuccessorID == p.ID:
			pred, ok := byID[d.PredecessorID]
			if !ok {
				continue
			}
			switch d.Type {
			case domain.FinishToStart:
				raiseEarliest(addDays(pred.EndDate, d.LagDays))
			case domain.StartToStart:
				raiseEarliest(addDays(pred.StartDate, d.LagDays))
			case domain.FinishToFinish:
				raiseEarliest(addDays(pred.EndDate, d.LagDays-duration))
			case domain.StartToFinish:
				raiseEarliest(addDays(pred.StartDate, d.LagDays-duration))
			}

		case d.PredecessorID == p.ID:
			succ, ok := byID[d.SuccessorID]
			if !ok {
				continue
			}
			switch d.Type {
			case domain.FinishToStart:
				lowerLatest(addDays(succ.StartDate, -d.LagDays-duration))
			case domain.StartToStart:
				lowerLatest(addDays(succ.StartDate, -d.LagDays))
			case domain.FinishToFinish:
				lowerLatest(addDays(succ.EndDate, -d.LagDays-duration))
			case domain.StartToFinish:
				lowerLatest(addDays(succ.EndDate, -d.LagDays))
			}
		}
	}

	start = p.StartDate
	switch {
	case earliestStart != nil && start.Before(*earliestStart):
		start = *earliestStart
	case latestStart != nil && start.After(*latestStart):
		start = *latestStart
	}
	// Earliest bounds win over latest when both apply.
	if earliestStart != nil && start.Before(*earliestStart) {
		start = *earliestStart
	}

	end = addDays(start, duration)
	changed = !start.Equal(p.StartDate)
	return start, end, changed
}

// Fix records one applied correction from FixAll.
type Fix struct {
	PhaseID string
	Name    string
	Start   time.Time
	End     time.Time
}

// FixAll applies corrections sequentially across all currently-invalid
// phases in start-date order. It is a forward pass: each phase is
// corrected against its predecessors only, so an edit to an early
// phase propagates down the chain instead of dragging the edited phase
// back. Every edge constraint is a single inequality, so satisfying
// all successor-side bounds clears the predecessor-side views too.
// Each correction is visible to the validations that follow it.
func FixAll(phases []*domain.Phase, deps []domain.Dependency) []Fix {
	working := make([]*domain.Phase, len(phases))
	for i, p := range phases {
		cp := *p
		working[i] = &cp
	}
	sort.Slice(working, func(i, j int) bool {
		if working[i].StartDate.Equal(working[j].StartDate) {
			return working[i].ID < working[j].ID
		}
		return working[i].StartDate.Before(working[j].StartDate)
	})

	var fixes []Fix
	for _, p := range working {
		start, end, changed := correctedForward(p, working, deps)
		if !changed {
			continue
		}
		p.StartDate = start
		p.EndDate = end
		fixes = append(fixes, Fix{PhaseID: p.ID, Name: p.Name, Start: start, End: end})
	}
	return fixes
}

// correctedForward computes the correction considering only the
// phase's predecessor edges, preserving duration.
func correctedForward(p *domain.Phase, phases []*domain.Phase, deps []domain.Dependency) (start, end time.Time, changed bool) {
	byID := phaseIndex(phases)
	duration := daysBetween(p.StartDate, p.EndDate)

	start = p.StartDate
	for _, d := range deps {
		if d.SuccessorID != p.ID {
			continue
		}
		pred, ok := byID[d.PredecessorID]
		if !ok {
			continue
		}
		var earliest time.Time
		switch d.Type {
		case domain.FinishToStart:
			earliest = addDays(pred.EndDate, d.LagDays)
		case domain.StartToStart:
			earliest = addDays(pred.StartDate, d.LagDays)
		case domain.FinishToFinish:
			earliest = addDays(pred.EndDate, d.LagDays-duration)
		case domain.StartToFinish:
			earliest = addDays(pred.StartDate, d.LagDays-duration)
		}
		if start.Before(earliest) {
			start = earliest
		}
	}

	end = addDays(start, duration)
	changed = !start.Equal(p.StartDate)
	return start, end, changed
}

func violation(d domain.Dependency, phaseID, format string, args ...any) *Violation {
	return &Violation{
		Dependency: d,
		PhaseID:    phaseID,
		Message:    fmt.Sprintf(format, args...),
	}
}

func phaseIndex(phases []*domain.Phase) map[string]*domain.Phase {
	byID := make(map[string]*domain.Phase, len(phases))
	for _, p := range phases {
		byID[p.ID] = p
	}
	return byID
}

func lagSuffix(lag int) string {
	switch {
	case lag > 0:
		return fmt.Sprintf(" plus %d day lag", lag)
	case lag < 0:
		return fmt.Sprintf(" minus %d day overlap", -lag)
	default:
		return ""
	}
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, n)
}

func daysBetween(a, b time.Time) int {
	return int(addDays(b, 0).Sub(addDays(a, 0)).Hours() / 24)
}
