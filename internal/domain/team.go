package domain

import "time"

// Team represents an ambassador team operating within a region.
type Team struct {
	ID        string
	Name      string
	Region    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
