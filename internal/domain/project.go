package domain

import "time"

type Project struct {
	ID         string
	ShortID    string
	Name       string
	Status     ProjectStatus
	StartDate  time.Time
	TargetDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
