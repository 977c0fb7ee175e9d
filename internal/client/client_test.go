package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/enrollment"
	"github.com/csmentors/scheduler-api/internal/models"
)

// fakeTransport serves canned fixtures keyed by path and records calls.
type fakeTransport struct {
	mu       sync.Mutex
	fixtures map[string]interface{}
	fetchErr error
	submit   func(path string) (ActionResult, error)
	patchErr error

	fetchGate  chan struct{} // when set, the first FetchList blocks until closed
	gateUsed   bool
	fetchCtxs  []context.Context
	patchPaths []string
	events     *[]string
}

func (f *fakeTransport) FetchList(ctx context.Context, path string, dest interface{}) error {
	f.mu.Lock()
	f.fetchCtxs = append(f.fetchCtxs, ctx)
	gate := f.fetchGate
	used := f.gateUsed
	if gate != nil && !used {
		f.gateUsed = true
	} else {
		gate = nil
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.fetchErr != nil {
		return f.fetchErr
	}
	fixture, ok := f.fixtures[path]
	if !ok {
		return fmt.Errorf("no fixture for %s", path)
	}
	raw, err := json.Marshal(fixture)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeTransport) SubmitAction(ctx context.Context, path string, payload interface{}) (ActionResult, error) {
	f.record("submit " + path)
	if f.submit != nil {
		return f.submit(path)
	}
	return ActionResult{OK: true}, nil
}

func (f *fakeTransport) PatchAction(ctx context.Context, path, method string) error {
	f.mu.Lock()
	f.patchPaths = append(f.patchPaths, method+" "+path)
	f.mu.Unlock()
	f.record("patch " + path)
	return f.patchErr
}

func (f *fakeTransport) record(event string) {
	if f.events == nil {
		return
	}
	f.mu.Lock()
	*f.events = append(*f.events, event)
	f.mu.Unlock()
}

type fakePresenter struct {
	mu     sync.Mutex
	alerts []string
	events *[]string
}

func (p *fakePresenter) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, message)
	if p.events != nil {
		*p.events = append(*p.events, "alert "+message)
	}
}

type fakeNavigator struct {
	mu       sync.Mutex
	sections []string
	home     int
	events   *[]string
}

func (n *fakeNavigator) ToSection(sectionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sections = append(n.sections, sectionID)
	if n.events != nil {
		*n.events = append(*n.events, "navigate "+sectionID)
	}
}

func (n *fakeNavigator) Home() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.home++
	if n.events != nil {
		*n.events = append(*n.events, "navigate home")
	}
}

type fakeClipboard struct {
	written []string
	err     error
}

func (c *fakeClipboard) Write(text string) error {
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, text)
	return nil
}

func testCourse(now time.Time) models.Course {
	return models.Course{
		ID:              "crs-61a",
		Name:            "CS61A",
		Title:           "Structure and Interpretation of Computer Programs",
		EnrollmentStart: now.Add(-7 * 24 * time.Hour),
		EnrollmentEnd:   now.Add(7 * 24 * time.Hour),
	}
}

func testSection(id string, day models.DayOfWeek, start string, capacity, enrolled int) models.SectionDetail {
	return models.SectionDetail{
		Section:       models.Section{ID: id, CourseID: "crs-61a", Capacity: capacity},
		EnrolledCount: enrolled,
		Spacetime:     models.Spacetime{DayOfWeek: day, StartTime: start},
	}
}

func newTestClient(transport *fakeTransport) (*Client, *fakePresenter, *fakeNavigator, *fakeClipboard) {
	presenter := &fakePresenter{}
	nav := &fakeNavigator{}
	clip := &fakeClipboard{}
	return New(transport, presenter, nav, clip, zap.NewNop()), presenter, nav, clip
}

func TestLoadCourseViewGroupsSectionsAndFindsEnrollment(t *testing.T) {
	now := time.Now()
	course := testCourse(now)
	transport := &fakeTransport{fixtures: map[string]interface{}{
		"/scheduler/profiles/": []models.Profile{
			{ID: "stu-1", Role: models.ProfileStudent, CourseID: "crs-61a", SectionID: "sec-2"},
		},
		"/scheduler/courses/CS61A/sections/": []models.SectionDetail{
			testSection("sec-2", models.Wednesday, "10:00:00", 5, 3),
			testSection("sec-1", models.Monday, "09:00:00", 5, 5),
		},
	}}
	c, _, _, _ := newTestClient(transport)

	view, err := c.LoadCourseView(context.Background(), course, now)
	require.NoError(t, err)
	assert.True(t, view.EnrollmentOpen)
	assert.Equal(t, "sec-2", view.EnrolledSectionID)
	assert.True(t, view.AlreadyEnrolled())
	require.Equal(t, []models.DayOfWeek{models.Monday, models.Wednesday}, view.Sections.Days)
}

func TestLoadCourseViewDiscardsStaleResponse(t *testing.T) {
	now := time.Now()
	course := testCourse(now)
	gate := make(chan struct{})
	transport := &fakeTransport{
		fetchGate: gate,
		fixtures: map[string]interface{}{
			"/scheduler/profiles/":               []models.Profile{},
			"/scheduler/courses/CS61A/sections/": []models.SectionDetail{},
		},
	}
	c, presenter, _, _ := newTestClient(transport)

	started := make(chan struct{})
	staleResult := make(chan error, 1)
	go func() {
		close(started)
		_, err := c.LoadCourseView(context.Background(), course, now)
		staleResult <- err
	}()
	<-started
	// let the first load get its requests in flight
	time.Sleep(10 * time.Millisecond)

	// a second load for the same course supersedes the first
	view, err := c.LoadCourseView(context.Background(), course, now)
	require.NoError(t, err)
	require.NotNil(t, view)

	close(gate)
	assert.ErrorIs(t, <-staleResult, ErrStaleView)
	assert.Empty(t, presenter.alerts)
}

func TestLoadReleasesViewContextWhenDone(t *testing.T) {
	transport := &fakeTransport{fixtures: map[string]interface{}{
		"/students/stu-1/attendances": []models.AttendanceRecord{},
	}}
	c, _, _, _ := newTestClient(transport)

	_, err := c.LoadAttendance(context.Background(), "stu-1")
	require.NoError(t, err)

	// The derived context is cancelled once the load returns, not parked
	// until the next load on the same key.
	transport.mu.Lock()
	require.Len(t, transport.fetchCtxs, 1)
	fetchCtx := transport.fetchCtxs[0]
	transport.mu.Unlock()
	assert.ErrorIs(t, fetchCtx.Err(), context.Canceled)

	c.mu.Lock()
	_, held := c.cancels["attendance:stu-1"]
	c.mu.Unlock()
	assert.False(t, held)
}

func TestLoadCourseViewSurfacesTransportFailure(t *testing.T) {
	now := time.Now()
	transport := &fakeTransport{fetchErr: errors.New("connection refused")}
	c, presenter, _, _ := newTestClient(transport)

	_, err := c.LoadCourseView(context.Background(), testCourse(now), now)
	require.Error(t, err)
	require.Len(t, presenter.alerts, 1)
	assert.Equal(t, MsgLoadFailed, presenter.alerts[0])
}

func TestAttemptEnrollSuccessReportsBeforeNavigating(t *testing.T) {
	now := time.Now()
	course := testCourse(now)
	var events []string
	transport := &fakeTransport{
		events: &events,
		fixtures: map[string]interface{}{
			"/scheduler/profiles/":               []models.Profile{},
			"/scheduler/courses/CS61A/sections/": []models.SectionDetail{},
		},
	}
	presenter := &fakePresenter{events: &events}
	nav := &fakeNavigator{events: &events}
	c := New(transport, presenter, nav, &fakeClipboard{}, zap.NewNop())

	view := &CourseView{Course: course, EnrollmentOpen: true}
	outcome, err := c.AttemptEnroll(context.Background(), view, testSection("sec-1", models.Monday, "09:00:00", 5, 3), now)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "sec-1", outcome.SectionID)

	require.Equal(t, []string{"sec-1"}, nav.sections)
	// the success alert precedes the navigation intent
	alertIdx := indexOf(events, "alert "+MsgEnrollSuccess)
	navIdx := indexOf(events, "navigate sec-1")
	require.GreaterOrEqual(t, alertIdx, 0)
	require.GreaterOrEqual(t, navIdx, 0)
	assert.Less(t, alertIdx, navIdx)
}

func TestAttemptEnrollSectionFullSurfacesClosedMessage(t *testing.T) {
	now := time.Now()
	course := testCourse(now)
	transport := &fakeTransport{
		submit: func(path string) (ActionResult, error) {
			return ActionResult{OK: false, ShortCode: "section_full", Body: json.RawMessage(`{"shortCode":"section_full"}`)}, nil
		},
	}
	c, presenter, nav, _ := newTestClient(transport)

	view := &CourseView{Course: course, EnrollmentOpen: true}
	outcome, err := c.AttemptEnroll(context.Background(), view, testSection("sec-1", models.Monday, "09:00:00", 5, 3), now)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, enrollment.MsgCourseClosed, outcome.Message)
	require.Len(t, presenter.alerts, 1)
	assert.Equal(t, enrollment.MsgCourseClosed, presenter.alerts[0])
	assert.Empty(t, nav.sections)
	assert.False(t, view.AlreadyEnrolled())
}

func TestAttemptEnrollUnrecognizedCodeDegradesToGeneric(t *testing.T) {
	now := time.Now()
	transport := &fakeTransport{
		submit: func(path string) (ActionResult, error) {
			return ActionResult{OK: false, ShortCode: "quota_exceeded", Body: json.RawMessage(`{"shortCode":"quota_exceeded","detail":"x"}`)}, nil
		},
	}
	c, presenter, _, _ := newTestClient(transport)

	view := &CourseView{Course: testCourse(now), EnrollmentOpen: true}
	outcome, err := c.AttemptEnroll(context.Background(), view, testSection("sec-1", models.Monday, "09:00:00", 5, 3), now)
	require.NoError(t, err)
	assert.Equal(t, enrollment.MsgUnknownError, outcome.Message)
	require.Len(t, presenter.alerts, 1)
	assert.Equal(t, enrollment.MsgUnknownError, presenter.alerts[0])
}

func TestAttemptEnrollLocallyGated(t *testing.T) {
	now := time.Now()
	course := testCourse(now)
	transport := &fakeTransport{
		submit: func(path string) (ActionResult, error) {
			t.Fatal("remote enroll must not fire when the local gate denies")
			return ActionResult{}, nil
		},
	}
	c, presenter, _, _ := newTestClient(transport)

	view := &CourseView{Course: course, EnrollmentOpen: true, EnrolledSectionID: "sec-9"}
	outcome, err := c.AttemptEnroll(context.Background(), view, testSection("sec-1", models.Monday, "09:00:00", 5, 3), now)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, enrollment.MsgAlreadyEnrolled, outcome.Message)
	require.Len(t, presenter.alerts, 1)
}

func TestLoadAttendanceSelectsMostRecentWeek(t *testing.T) {
	w1 := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	w2 := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{ID: "a", Date: w1, Presence: "PR"},
		{ID: "b", Date: w1.AddDate(0, 0, 1), Presence: "UN"},
		{ID: "c", Date: w1.AddDate(0, 0, 2), Presence: "PR"},
		{ID: "d", Date: w2, Presence: ""},
		{ID: "e", Date: w2.AddDate(0, 0, 1), Presence: ""},
	}
	transport := &fakeTransport{fixtures: map[string]interface{}{
		"/students/stu-1/attendances": records,
	}}
	c, _, _, _ := newTestClient(transport)

	view, err := c.LoadAttendance(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Equal(t, []string{"2024-03-11", "2024-03-04"}, view.Weeks.Keys)

	selected, ok := view.Selection.Key()
	require.True(t, ok)
	assert.Equal(t, "2024-03-11", selected)
	assert.Len(t, view.Weeks.Groups[selected], 2)
}

func TestLoadAttendanceEmptyHasNilSelection(t *testing.T) {
	transport := &fakeTransport{fixtures: map[string]interface{}{
		"/students/stu-1/attendances": []models.AttendanceRecord{},
	}}
	c, _, _, _ := newTestClient(transport)

	view, err := c.LoadAttendance(context.Background(), "stu-1")
	require.NoError(t, err)
	_, ok := view.Selection.Key()
	assert.False(t, ok)
}

func TestCopyRosterEmails(t *testing.T) {
	c, _, _, clip := newTestClient(&fakeTransport{})
	students := []models.StudentDetail{
		{Student: models.Student{ID: "s1"}, Email: "ada@berkeley.edu"},
		{Student: models.Student{ID: "s2"}, Email: "alan@berkeley.edu"},
		{Student: models.Student{ID: "s3"}},
	}
	require.NoError(t, c.CopyRosterEmails(students))
	require.Len(t, clip.written, 1)
	assert.Equal(t, "ada@berkeley.edu, alan@berkeley.edu", clip.written[0])
	assert.Equal(t, 2, strings.Count(clip.written[0], "@")) // blank emails skipped
}

func indexOf(events []string, target string) int {
	for i, e := range events {
		if e == target {
			return i
		}
	}
	return -1
}
