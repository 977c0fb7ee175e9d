package dto

import (
	"github.com/csmentors/scheduler-api/internal/enrollment"
	"github.com/csmentors/scheduler-api/internal/models"
	"github.com/csmentors/scheduler-api/pkg/timefmt"
)

// SpacetimeResponse is the wire shape of a meeting slot. Time travels both
// raw (for clients that sort) and pre-formatted for display.
type SpacetimeResponse struct {
	DayOfWeek   models.DayOfWeek `json:"day_of_week"`
	StartTime   string           `json:"start_time"`
	DisplayTime string           `json:"display_time"`
	Duration    int              `json:"duration_minutes"`
	Location    string           `json:"location"`
	Overridden  bool             `json:"overridden"`
}

// SectionResponse is one row of a course's section listing.
type SectionResponse struct {
	ID            string            `json:"id"`
	CourseID      string            `json:"course_id"`
	CourseName    string            `json:"course_name"`
	MentorName    string            `json:"mentor_name"`
	MentorEmail   string            `json:"mentor_email"`
	Capacity      int               `json:"capacity"`
	EnrolledCount int               `json:"enrolled_count"`
	Available     int               `json:"available"`
	SpotsLabel    string            `json:"spots_label"`
	Spacetime     SpacetimeResponse `json:"spacetime"`
}

// NewSectionResponse flattens a section detail for the wire, resolving the
// effective spacetime against any unexpired override.
func NewSectionResponse(section models.SectionDetail, overridden bool, effective models.Spacetime) SectionResponse {
	available := section.Available()
	return SectionResponse{
		ID:            section.ID,
		CourseID:      section.CourseID,
		CourseName:    section.CourseName,
		MentorName:    section.MentorName,
		MentorEmail:   section.MentorEmail,
		Capacity:      section.Capacity,
		EnrolledCount: section.EnrolledCount,
		Available:     available,
		SpotsLabel:    enrollment.SpotsLabel(available),
		Spacetime: SpacetimeResponse{
			DayOfWeek:   effective.DayOfWeek,
			StartTime:   effective.StartTime,
			DisplayTime: timefmt.Display(effective.StartTime),
			Duration:    effective.DurationMinutes,
			Location:    effective.Location,
			Overridden:  overridden,
		},
	}
}

// CourseResponse is one catalog row with its evaluated window state.
type CourseResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	EnrollmentStart string `json:"enrollment_start"`
	EnrollmentEnd   string `json:"enrollment_end"`
	EnrollmentOpen  bool   `json:"enrollment_open"`
}

// EnrollRequest is currently empty: the section comes from the path and the
// user from the token. Kept as a struct so future fields bind cleanly.
type EnrollRequest struct{}

// EnrollResponse confirms a successful enrollment.
type EnrollResponse struct {
	StudentID string `json:"student_id"`
	SectionID string `json:"section_id"`
	CourseID  string `json:"course_id"`
}

// ReportRequest selects the export format for an attendance sheet.
type ReportRequest struct {
	Format models.ReportFormat `json:"format" validate:"required"`
}
