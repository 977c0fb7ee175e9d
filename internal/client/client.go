// Package client is the view-model layer of the scheduler frontend: it
// loads course, roster, and attendance state through an injected transport,
// runs the enrollment rules locally, and surfaces outcomes through blocking
// presenter affordances. All remote work is keyed by the view context
// captured at dispatch; late responses for a superseded context are
// discarded and the superseded request is cancelled.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/cohort"
	"github.com/csmentors/scheduler-api/internal/enrollment"
	"github.com/csmentors/scheduler-api/internal/models"
)

// ErrStaleView marks a load whose view context was superseded while the
// fetch was in flight. Callers drop the result; nothing reached the user.
var ErrStaleView = errors.New("view context superseded")

// MsgLoadFailed is the uniform fallback for transport and decode failures.
const MsgLoadFailed = "Unable to load scheduler data. Please try again."

// Client drives the scheduler views.
type Client struct {
	transport Transport
	presenter Presenter
	nav       Navigator
	clipboard Clipboard
	logger    *zap.Logger

	mu      sync.Mutex
	gens    map[string]uint64
	cancels map[string]context.CancelFunc
}

// New wires a client from its collaborators.
func New(transport Transport, presenter Presenter, nav Navigator, clipboard Clipboard, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		transport: transport,
		presenter: presenter,
		nav:       nav,
		clipboard: clipboard,
		logger:    logger,
		gens:      make(map[string]uint64),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// begin opens a new generation for the view key, cancelling any outstanding
// request dispatched under the previous generation.
func (c *Client) begin(ctx context.Context, key string) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cancel, ok := c.cancels[key]; ok {
		cancel()
	}
	viewCtx, cancel := context.WithCancel(ctx)
	c.cancels[key] = cancel
	c.gens[key]++
	return viewCtx, c.gens[key]
}

// finish releases a completed load's derived context. A superseded
// generation was already cancelled by begin, and its successor now owns the
// cancel slot, so finish only acts when gen is still live.
func (c *Client) finish(key string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return
	}
	if cancel, ok := c.cancels[key]; ok {
		cancel()
		delete(c.cancels, key)
	}
}

// current reports whether gen is still the live generation for key.
func (c *Client) current(key string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key] == gen
}

// fail logs the underlying error and surfaces a blocking alert.
func (c *Client) fail(message string, err error) {
	c.logger.Warn("scheduler request failed", zap.Error(err))
	c.presenter.Alert(message)
}

// CourseView is the weekday-grouped section listing for one course.
type CourseView struct {
	Course            models.Course
	Profiles          []models.Profile
	Sections          cohort.ByDay
	EnrollmentOpen    bool
	EnrolledSectionID string
}

// AlreadyEnrolled reports whether the viewer holds a section of this course.
func (v *CourseView) AlreadyEnrolled() bool {
	return v.EnrolledSectionID != ""
}

// LoadCourseView fetches the viewer's profiles and the course's sections
// concurrently, then projects them into the weekday grouping. The window is
// re-evaluated here on every load, never cached across courses.
func (c *Client) LoadCourseView(ctx context.Context, course models.Course, now time.Time) (*CourseView, error) {
	key := "course:" + course.Name
	viewCtx, gen := c.begin(ctx, key)
	defer c.finish(key, gen)

	var (
		profiles []models.Profile
		sections []models.SectionDetail
		profErr  error
		secErr   error
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		profErr = c.transport.FetchList(viewCtx, "/scheduler/profiles/", &profiles)
	}()
	go func() {
		defer wg.Done()
		secErr = c.transport.FetchList(viewCtx, fmt.Sprintf("/scheduler/courses/%s/sections/", course.Name), &sections)
	}()
	wg.Wait()

	if !c.current(key, gen) {
		return nil, ErrStaleView
	}
	if err := firstError(profErr, secErr); err != nil {
		c.fail(MsgLoadFailed, err)
		return nil, err
	}

	view := &CourseView{
		Course:         course,
		Profiles:       profiles,
		Sections:       cohort.SectionsByDay(sections, now),
		EnrollmentOpen: enrollment.WindowOpen(now, course.EnrollmentStart, course.EnrollmentEnd),
	}
	for _, p := range profiles {
		if p.Role == models.ProfileStudent && p.CourseID == course.ID {
			view.EnrolledSectionID = p.SectionID
			break
		}
	}
	return view, nil
}

// EnrollOutcome reports an enroll attempt's result.
type EnrollOutcome struct {
	Success   bool
	SectionID string
	Message   string
}

// MsgEnrollSuccess confirms a successful enrollment.
const MsgEnrollSuccess = "You are now enrolled in this section."

// AttemptEnroll runs the local gate, then the authoritative remote call.
// On success the confirmation is reported before the refresh-and-navigate
// sequence fires, and the two run back to back so the user never sees stale
// intermediate state. Rejections leave enrollment state untouched.
func (c *Client) AttemptEnroll(ctx context.Context, view *CourseView, section models.SectionDetail, now time.Time) (EnrollOutcome, error) {
	decision := enrollment.Decide(now, view.Course, section, view.AlreadyEnrolled())
	if !decision.Allowed {
		// the interface disables the action for these; reaching here means
		// the snapshot went stale, so surface the mapped message
		message := enrollment.MessageFor(decision.Reason)
		c.presenter.Alert(message)
		return EnrollOutcome{Message: message}, nil
	}

	result, err := c.transport.SubmitAction(ctx, fmt.Sprintf("/scheduler/sections/%s/enroll", section.ID), struct{}{})
	if err != nil {
		c.fail(enrollment.MsgUnknownError, err)
		return EnrollOutcome{}, err
	}
	if !result.OK {
		message := enrollment.MessageFor(result.ShortCode)
		if message == enrollment.MsgUnknownError {
			c.logger.Warn("enroll rejected with unrecognized code",
				zap.String("short_code", result.ShortCode),
				zap.ByteString("body", result.Body))
		}
		c.presenter.Alert(message)
		return EnrollOutcome{Message: message}, nil
	}

	c.presenter.Alert(MsgEnrollSuccess)
	if _, err := c.LoadCourseView(ctx, view.Course, now); err != nil && !errors.Is(err, ErrStaleView) {
		c.logger.Warn("post-enroll refresh failed", zap.Error(err))
	}
	c.nav.ToSection(section.ID)
	return EnrollOutcome{Success: true, SectionID: section.ID, Message: MsgEnrollSuccess}, nil
}

// AttendanceView is a student's attendance partitioned into weekly cohorts
// with the most recent week selected.
type AttendanceView struct {
	Weeks     cohort.Weekly
	Selection cohort.Selection
}

// LoadAttendance fetches a student's attendance records and groups them
// weekly. A superseded load returns ErrStaleView and touches nothing.
func (c *Client) LoadAttendance(ctx context.Context, studentID string) (*AttendanceView, error) {
	key := "attendance:" + studentID
	viewCtx, gen := c.begin(ctx, key)
	defer c.finish(key, gen)

	var records []models.AttendanceRecord
	err := c.transport.FetchList(viewCtx, fmt.Sprintf("/students/%s/attendances", studentID), &records)
	if !c.current(key, gen) {
		return nil, ErrStaleView
	}
	if err != nil {
		c.fail(MsgLoadFailed, err)
		return nil, err
	}

	view := &AttendanceView{Weeks: cohort.Weeks(records)}
	view.Selection.Reset(view.Weeks.Keys)
	return view, nil
}

// LoadRoster fetches a section's enrolled students for the mentor view.
func (c *Client) LoadRoster(ctx context.Context, sectionID string) ([]models.StudentDetail, error) {
	key := "roster:" + sectionID
	viewCtx, gen := c.begin(ctx, key)
	defer c.finish(key, gen)

	var students []models.StudentDetail
	err := c.transport.FetchList(viewCtx, fmt.Sprintf("/sections/%s/students/", sectionID), &students)
	if !c.current(key, gen) {
		return nil, ErrStaleView
	}
	if err != nil {
		c.fail(MsgLoadFailed, err)
		return nil, err
	}
	return students, nil
}

// RecordPresence submits a mentor's presence update for one attendance row.
func (c *Client) RecordPresence(ctx context.Context, studentID, attendanceID, presence string) error {
	payload := map[string]string{"presence": presence}
	result, err := c.transport.SubmitAction(ctx, fmt.Sprintf("/students/%s/attendances/%s", studentID, attendanceID), payload)
	if err != nil {
		c.fail(enrollment.MsgUnknownError, err)
		return err
	}
	if !result.OK {
		c.logger.Warn("presence update rejected",
			zap.String("short_code", result.ShortCode),
			zap.ByteString("body", result.Body))
		c.presenter.Alert(enrollment.MsgUnknownError)
		return fmt.Errorf("presence update rejected: %s", result.ShortCode)
	}
	return nil
}

// CopyRosterEmails writes the roster's email addresses to the clipboard.
func (c *Client) CopyRosterEmails(students []models.StudentDetail) error {
	emails := make([]string, 0, len(students))
	for _, s := range students {
		if s.Email != "" {
			emails = append(emails, s.Email)
		}
	}
	if err := c.clipboard.Write(strings.Join(emails, ", ")); err != nil {
		c.fail("Unable to copy emails to the clipboard.", err)
		return err
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
