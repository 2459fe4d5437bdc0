package domain

import "time"

// Phase is a contiguous stretch of project work rendered as one bar on
// the timeline. StartDate and EndDate are normalized to local midnight;
// EndDate never precedes StartDate (callers clamp to MinPhaseDurationDays
// rather than reject).
type Phase struct {
	ID         string
	ProjectID  string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Color      string
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MinPhaseDurationDays is the floor applied by resize operations.
const MinPhaseDurationDays = 1

// DurationDays returns the phase length in whole calendar days.
func (p *Phase) DurationDays() int {
	return int(p.EndDate.Sub(p.StartDate).Hours() / 24)
}
