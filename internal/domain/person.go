package domain

import "time"

type Person struct {
	ID          string
	Name        string
	Role        string
	WeeklyHours float64
	Status      PersonStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
