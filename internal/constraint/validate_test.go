package constraint

import (
	"testing"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func phase(id, name string, start, end time.Time) *domain.Phase {
	return &domain.Phase{ID: id, Name: name, StartDate: start, EndDate: end}
}

func dep(pred, succ string, t domain.DependencyType, lag int) domain.Dependency {
	return domain.Dependency{
		ID: pred + "->" + succ, PredecessorID: pred, SuccessorID: succ,
		Type: t, LagDays: lag,
	}
}

func TestValidatePhase_FSWithLag(t *testing.T) {
	pred := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 10))
	succ := phase("b", "Build", date(2024, 1, 11), date(2024, 1, 20))
	phases := []*domain.Phase{pred, succ}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, 3)}

	// b starts Jan 11, but must start on or after Jan 10 + 3 = Jan 13.
	violations := ValidatePhase(succ, phases, deps)
	require.Len(t, violations, 1)
	assert.Equal(t, "b", violations[0].PhaseID)
	assert.Contains(t, violations[0].Message, "2024-01-13")
	assert.Contains(t, violations[0].Message, "Design")

	// Moving b to Jan 13 satisfies the edge.
	succ.StartDate = date(2024, 1, 13)
	succ.EndDate = date(2024, 1, 22)
	assert.Empty(t, ValidatePhase(succ, phases, deps))
}

func TestValidatePhase_NegativeLagAllowsOverlap(t *testing.T) {
	pred := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 10))
	succ := phase("b", "Build", date(2024, 1, 8), date(2024, 1, 20))
	phases := []*domain.Phase{pred, succ}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, -2)}

	// Earliest start = Jan 10 - 2 = Jan 8: exactly legal.
	assert.Empty(t, ValidatePhase(succ, phases, deps))

	succ.StartDate = date(2024, 1, 7)
	assert.Len(t, ValidatePhase(succ, phases, deps), 1)
}

func TestValidatePhase_SS_FF_SF(t *testing.T) {
	pred := phase("a", "Design", date(2024, 1, 5), date(2024, 1, 15))
	phases := func(succ *domain.Phase) []*domain.Phase { return []*domain.Phase{pred, succ} }

	// SS: successor may not start before Jan 5.
	b := phase("b", "Build", date(2024, 1, 4), date(2024, 1, 20))
	assert.Len(t, ValidatePhase(b, phases(b), []domain.Dependency{dep("a", "b", domain.StartToStart, 0)}), 1)

	// FF: successor may not end before Jan 15.
	c := phase("c", "Test", date(2024, 1, 1), date(2024, 1, 14))
	assert.Len(t, ValidatePhase(c, phases(c), []domain.Dependency{dep("a", "c", domain.FinishToFinish, 0)}), 1)

	// SF: successor may not end before Jan 5.
	d := phase("d", "Review", date(2024, 1, 1), date(2024, 1, 4))
	assert.Len(t, ValidatePhase(d, phases(d), []domain.Dependency{dep("a", "d", domain.StartToFinish, 0)}), 1)
}

func TestValidatePhase_AsPredecessor(t *testing.T) {
	// The edited phase is the predecessor: it must not end after the
	// successor's start (FS).
	pred := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 12))
	succ := phase("b", "Build", date(2024, 1, 10), date(2024, 1, 20))
	phases := []*domain.Phase{pred, succ}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, 0)}

	violations := ValidatePhase(pred, phases, deps)
	require.Len(t, violations, 1)
	assert.Equal(t, "a", violations[0].PhaseID)
	assert.Contains(t, violations[0].Message, "end on or before 2024-01-10")
}

func TestCorrectedDates_FSLandsExactlyOnBound(t *testing.T) {
	pred := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 10))
	succ := phase("b", "Build", date(2024, 1, 5), date(2024, 1, 15))
	phases := []*domain.Phase{pred, succ}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, 4)}

	start, end, changed := CorrectedDates(succ, phases, deps)
	assert.True(t, changed)
	assert.Equal(t, date(2024, 1, 14), start) // pred.End + 4
	assert.Equal(t, date(2024, 1, 24), end)   // duration of 10 days preserved
}

func TestCorrectedDates_NoChangeWhenLegal(t *testing.T) {
	pred := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 10))
	succ := phase("b", "Build", date(2024, 1, 10), date(2024, 1, 20))
	phases := []*domain.Phase{pred, succ}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, 0)}

	start, end, changed := CorrectedDates(succ, phases, deps)
	assert.False(t, changed)
	assert.Equal(t, succ.StartDate, start)
	assert.Equal(t, succ.EndDate, end)
}

func TestCorrectedDates_PredecessorNudgedBack(t *testing.T) {
	pred := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 15))
	succ := phase("b", "Build", date(2024, 1, 10), date(2024, 1, 20))
	phases := []*domain.Phase{pred, succ}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, 0)}

	// a ends Jan 15 but must end by Jan 10: shift back 5 days.
	start, end, changed := CorrectedDates(pred, phases, deps)
	assert.True(t, changed)
	assert.Equal(t, date(2023, 12, 27), start) // Jan 10 minus the 14-day duration
	assert.Equal(t, date(2024, 1, 10), end)
}

func TestFixAll_AdjacentFSChain(t *testing.T) {
	// A [Jan 1–15] after an end-drag, B [Jan 10–20], FS lag 0:
	// Fix All must land B's start exactly on A's end.
	a := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 15))
	b := phase("b", "Build", date(2024, 1, 10), date(2024, 1, 20))
	phases := []*domain.Phase{a, b}
	deps := []domain.Dependency{dep("a", "b", domain.FinishToStart, 0)}

	fixes := FixAll(phases, deps)
	require.Len(t, fixes, 1)
	assert.Equal(t, "b", fixes[0].PhaseID)
	assert.Equal(t, date(2024, 1, 15), fixes[0].Start)
	assert.Equal(t, date(2024, 1, 25), fixes[0].End) // 10-day duration preserved
}

func TestFixAll_CorrectionsCascadeThroughChain(t *testing.T) {
	// a pushed late; b and c each FS-depend on the previous phase.
	a := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 20))
	b := phase("b", "Build", date(2024, 1, 10), date(2024, 1, 18))
	c := phase("c", "Test", date(2024, 1, 18), date(2024, 1, 25))
	phases := []*domain.Phase{a, b, c}
	deps := []domain.Dependency{
		dep("a", "b", domain.FinishToStart, 0),
		dep("b", "c", domain.FinishToStart, 0),
	}

	fixes := FixAll(phases, deps)
	require.Len(t, fixes, 2)

	assert.Equal(t, "b", fixes[0].PhaseID)
	assert.Equal(t, date(2024, 1, 20), fixes[0].Start)
	assert.Equal(t, date(2024, 1, 28), fixes[0].End)

	// c is validated against the already-corrected b.
	assert.Equal(t, "c", fixes[1].PhaseID)
	assert.Equal(t, date(2024, 1, 28), fixes[1].Start)
	assert.Equal(t, date(2024, 2, 4), fixes[1].End)
}

func TestFixAll_NoViolationsNoFixes(t *testing.T) {
	a := phase("a", "Design", date(2024, 1, 1), date(2024, 1, 10))
	b := phase("b", "Build", date(2024, 1, 10), date(2024, 1, 20))
	fixes := FixAll([]*domain.Phase{a, b}, []domain.Dependency{dep("a", "b", domain.FinishToStart, 0)})
	assert.Empty(t, fixes)
}

func TestWouldCreateCycle(t *testing.T) {
	deps := []domain.Dependency{
		dep("a", "b", domain.FinishToStart, 0),
		dep("b", "c", domain.FinishToStart, 0),
	}

	assert.True(t, WouldCreateCycle(deps, "c", "a"), "closing the loop")
	assert.True(t, WouldCreateCycle(deps, "b", "a"), "direct back-edge")
	assert.True(t, WouldCreateCycle(nil, "a", "a"), "self-edge")
	assert.False(t, WouldCreateCycle(deps, "a", "c"), "forward shortcut is fine")
	assert.False(t, WouldCreateCycle(deps, "c", "d"), "extending the chain")
}
