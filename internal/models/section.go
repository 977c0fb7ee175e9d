package models

import "time"

// DayOfWeek names follow the wire convention of full English day names.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// WeekOrder is the canonical Monday-first display ordering.
var WeekOrder = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNumbers = map[DayOfWeek]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

// DayNumber maps a weekday name onto the canonical ordering (Monday=0).
// Unknown names sort last.
func DayNumber(day DayOfWeek) int {
	if n, ok := dayNumbers[day]; ok {
		return n
	}
	return len(dayNumbers)
}

// Spacetime is a section's default meeting descriptor. StartTime travels as
// a 24-hour "HH:mm:ss" string.
type Spacetime struct {
	ID              string    `db:"id" json:"id"`
	SectionID       string    `db:"section_id" json:"section_id"`
	DayOfWeek       DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime       string    `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Location        string    `db:"location" json:"location"`
}

// SpacetimeOverride replaces a spacetime for a single occurrence. It takes
// display precedence over the default until its date has passed.
type SpacetimeOverride struct {
	ID          string    `db:"id" json:"id"`
	SpacetimeID string    `db:"spacetime_id" json:"spacetime_id"`
	Date        time.Time `db:"date" json:"date"`
	DayOfWeek   DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	Location    string    `db:"location" json:"location"`
}

// Expired reports whether the override's occurrence date has passed.
func (o SpacetimeOverride) Expired(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return o.Date.Before(today)
}

// Effective returns the spacetime to display: the override when present and
// unexpired, otherwise the default.
func (s Spacetime) Effective(override *SpacetimeOverride, now time.Time) Spacetime {
	if override == nil || override.Expired(now) {
		return s
	}
	resolved := s
	resolved.DayOfWeek = override.DayOfWeek
	resolved.StartTime = override.StartTime
	resolved.Location = override.Location
	return resolved
}

// Section is a capacity-bounded meeting group within a course.
type Section struct {
	ID       string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	MentorID string `db:"mentor_id" json:"mentor_id"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// SectionDetail is a section snapshot enriched for listing. EnrolledCount is
// read at query time; callers must re-fetch to observe enroll/drop effects.
type SectionDetail struct {
	Section
	CourseName    string             `db:"course_name" json:"course_name"`
	MentorName    string             `db:"mentor_name" json:"mentor_name"`
	MentorEmail   string             `db:"mentor_email" json:"mentor_email"`
	EnrolledCount int                `db:"enrolled_count" json:"enrolled_count"`
	Spacetime     Spacetime          `json:"spacetime"`
	Override      *SpacetimeOverride `json:"override,omitempty"`
}

// Available returns the remaining capacity, never negative.
func (s SectionDetail) Available() int {
	if s.EnrolledCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.EnrolledCount
}
