// Package enrollment holds the pure rules governing section enrollment:
// the time-window check, the local enroll gate, rejection-code message
// mapping, and the drop confirmation state machine. Nothing here performs
// I/O; the client and server layers both build on these rules.
package enrollment

import (
	"fmt"
	"time"

	"github.com/csmentors/scheduler-api/internal/models"
)

// Rejection short codes the server returns on an enroll attempt. They match
// the Code field of the corresponding pkg/errors values.
const (
	CodeAlreadyEnrolled = "already_enrolled"
	CodeCourseClosed    = "course_closed"
	CodeSectionFull     = "section_full"
)

// User-facing messages for enroll outcomes.
const (
	MsgAlreadyEnrolled = "You are already enrolled in a section of this course. Students may only enroll in one section per course."
	MsgCourseClosed    = "This course is not currently open for enrollment."
	MsgUnknownError    = "An unexpected error occurred. Please try again later."
)

// MessageFor maps a server rejection short code to its user-facing message.
// section_full surfaces the same text as course_closed: a full section and a
// closed course read identically to students. Unrecognized codes degrade to
// a generic message; callers must log the full failure body separately.
func MessageFor(shortCode string) string {
	switch shortCode {
	case CodeAlreadyEnrolled:
		return MsgAlreadyEnrolled
	case CodeCourseClosed, CodeSectionFull:
		return MsgCourseClosed
	default:
		return MsgUnknownError
	}
}

// Decision is the outcome of the local enroll gate. A denied decision
// disables the enroll action in the interface; it is a UX gate only, the
// remote call remains authoritative.
type Decision struct {
	Allowed bool
	Reason  string
}

// Decide evaluates the local enroll preconditions: the student must not
// already hold a section of this course, the course's window must be open,
// and the section must have spots left. The first failed check wins.
func Decide(now time.Time, course models.Course, section models.SectionDetail, alreadyEnrolled bool) Decision {
	if alreadyEnrolled {
		return Decision{Reason: CodeAlreadyEnrolled}
	}
	if !WindowOpen(now, course.EnrollmentStart, course.EnrollmentEnd) {
		return Decision{Reason: CodeCourseClosed}
	}
	if section.Available() == 0 {
		return Decision{Reason: CodeSectionFull}
	}
	return Decision{Allowed: true}
}

// SpotsLabel renders remaining capacity with the unit word pluralized on
// available == 1.
func SpotsLabel(available int) string {
	if available == 1 {
		return "1 spot"
	}
	return fmt.Sprintf("%d spots", available)
}
