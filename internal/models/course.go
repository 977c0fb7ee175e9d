package models

import (
	"fmt"
	"time"
)

// Course is a catalog entry sections hang off. Loaded read-only; the
// enrollment window bounds are fixed for the duration of a view session.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Title           string    `db:"title" json:"title"`
	EnrollmentStart time.Time `db:"enrollment_start" json:"enrollment_start"`
	EnrollmentEnd   time.Time `db:"enrollment_end" json:"enrollment_end"`
	ValidUntil      time.Time `db:"valid_until" json:"valid_until"`
}

// Validate enforces the window ordering invariants.
func (c Course) Validate() error {
	if c.EnrollmentEnd.Before(c.EnrollmentStart) {
		return fmt.Errorf("course %s: enrollment end precedes start", c.Name)
	}
	if !c.ValidUntil.IsZero() && c.ValidUntil.Before(c.EnrollmentEnd) {
		return fmt.Errorf("course %s: valid_until precedes enrollment end", c.Name)
	}
	return nil
}
