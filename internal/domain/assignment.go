package domain

import "time"

// Assignment allocates a person to a project at a percentage of their
// weekly hours over a date range.
type Assignment struct {
	ID            string
	ProjectID     string
	PersonID      string
	Role          string
	AllocationPct int
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
