package domain

import "time"

// Technician models a technical reviewer who handles manual-review tickets.
type Technician struct {
	ID              string
	EmployeeID      string
	Name            string
	Email           string
	Active          bool
	CurrentWorkload int
	MaxWorkload     int
	CreatedAt       time.Time
}

// HasCapacity reports whether more tickets can be assigned.
func (t Technician) HasCapacity() bool {
	return t.Active && t.CurrentWorkload < t.MaxWorkload
}
