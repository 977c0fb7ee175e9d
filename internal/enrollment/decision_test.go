package enrollment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/csmentors/scheduler-api/internal/models"
)

func openCourse(now time.Time) models.Course {
	return models.Course{
		ID:              "crs-1",
		Name:            "CS61A",
		EnrollmentStart: now.Add(-24 * time.Hour),
		EnrollmentEnd:   now.Add(24 * time.Hour),
	}
}

func sectionWith(capacity, enrolled int) models.SectionDetail {
	return models.SectionDetail{
		Section:       models.Section{ID: "sec-1", CourseID: "crs-1", Capacity: capacity},
		EnrolledCount: enrolled,
	}
}

func TestDecideAllowsWhenAllPreconditionsHold(t *testing.T) {
	now := time.Now()
	decision := Decide(now, openCourse(now), sectionWith(5, 3), false)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
}

func TestDecideDeniesDuplicateEnrollment(t *testing.T) {
	now := time.Now()
	decision := Decide(now, openCourse(now), sectionWith(5, 3), true)
	assert.False(t, decision.Allowed)
	assert.Equal(t, CodeAlreadyEnrolled, decision.Reason)
}

func TestDecideDeniesClosedWindow(t *testing.T) {
	now := time.Now()
	course := openCourse(now)
	course.EnrollmentEnd = now.Add(-time.Hour)
	decision := Decide(now, course, sectionWith(5, 3), false)
	assert.False(t, decision.Allowed)
	assert.Equal(t, CodeCourseClosed, decision.Reason)
}

func TestDecideDeniesFullSection(t *testing.T) {
	now := time.Now()
	section := sectionWith(5, 5)
	assert.Equal(t, 0, section.Available())

	decision := Decide(now, openCourse(now), section, false)
	assert.False(t, decision.Allowed)
	assert.Equal(t, CodeSectionFull, decision.Reason)
	assert.Equal(t, "0 spots", SpotsLabel(section.Available()))
}

func TestAvailableNeverNegative(t *testing.T) {
	over := sectionWith(5, 7)
	assert.Equal(t, 0, over.Available())
}

func TestSpotsLabelPluralization(t *testing.T) {
	assert.Equal(t, "1 spot", SpotsLabel(1))
	assert.Equal(t, "2 spots", SpotsLabel(2))
	assert.Equal(t, "0 spots", SpotsLabel(0))
}

func TestMessageForConflatesSectionFullWithCourseClosed(t *testing.T) {
	assert.Equal(t, MsgCourseClosed, MessageFor(CodeCourseClosed))
	assert.Equal(t, MsgCourseClosed, MessageFor(CodeSectionFull))
	assert.Equal(t, MsgAlreadyEnrolled, MessageFor(CodeAlreadyEnrolled))
	assert.Equal(t, MsgUnknownError, MessageFor("quota_exceeded"))
	assert.Equal(t, MsgUnknownError, MessageFor(""))
}
