package domain

import "time"

// Dependency is a directed scheduling edge between two phases of the
// same project. LagDays may be negative (overlap) or positive (delay).
type Dependency struct {
	ID            string
	ProjectID     string
	PredecessorID string
	SuccessorID   string
	Type          DependencyType
	LagDays       int
	CreatedAt     time.Time
}
