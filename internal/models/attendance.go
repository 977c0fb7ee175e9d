package models

import "time"

// AttendanceRecord is one student's presence for one section occurrence.
// Immutable once created except for Presence, which a mentor may update.
// Records are always fetched as a flat list and grouped by week start.
type AttendanceRecord struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Date        time.Time `db:"date" json:"date"`
	Presence    string    `db:"presence" json:"presence"`
}

// WeekStart returns the record's cohort key: the Monday of its week.
func (a AttendanceRecord) WeekStart() time.Time {
	return WeekStart(a.Date)
}

// WeekStart truncates a date to the Monday of its week.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	// time.Weekday counts Sunday=0; shift to Monday-based.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// PresenceCode describes one member of the open presence-code set. The set
// is supplied by configuration, not hardcoded; the empty code is a valid
// member ("section does not meet this week").
type PresenceCode struct {
	Code       string `db:"code" json:"code"`
	Label      string `db:"label" json:"label"`
	ColorToken string `db:"color_token" json:"color_token"`
}

// PresenceSet resolves codes to their display metadata.
type PresenceSet map[string]PresenceCode

// Contains reports whether the code is a member of the set.
func (s PresenceSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// Label returns the display label for a code, falling back to the raw code.
func (s PresenceSet) Label(code string) string {
	if pc, ok := s[code]; ok {
		return pc.Label
	}
	return code
}
