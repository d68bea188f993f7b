package domain

import "time"

// School represents a partner school referenced by escalations.
type School struct {
	ID        string
	Name      string
	Region    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
