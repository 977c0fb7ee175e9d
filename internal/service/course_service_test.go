package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type mockCatalogCourseRepo struct {
	courses []models.Course
	byName  map[string]*models.Course
}

func (m *mockCatalogCourseRepo) List(_ context.Context) ([]models.Course, error) {
	return m.courses, nil
}

func (m *mockCatalogCourseRepo) FindByName(_ context.Context, name string) (*models.Course, error) {
	return m.byName[name], nil
}

func (m *mockCatalogCourseRepo) FindByID(_ context.Context, _ string) (*models.Course, error) {
	return nil, nil
}

type mockCatalogSectionRepo struct {
	sections []models.SectionDetail
}

func (m *mockCatalogSectionRepo) ListByCourse(_ context.Context, _ string, _ time.Time) ([]models.SectionDetail, error) {
	return m.sections, nil
}

func (m *mockCatalogSectionRepo) FindDetailByID(_ context.Context, _ string, _ time.Time) (*models.SectionDetail, error) {
	if len(m.sections) == 0 {
		return nil, nil
	}
	return &m.sections[0], nil
}

func TestListCoursesMarksWindowState(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	courses := &mockCatalogCourseRepo{courses: []models.Course{
		{
			ID: "c1", Name: "CS61A",
			EnrollmentStart: now.Add(-time.Hour),
			EnrollmentEnd:   now.Add(time.Hour),
		},
		{
			ID: "c2", Name: "CS61B",
			EnrollmentStart: now.Add(time.Hour),
			EnrollmentEnd:   now.Add(2 * time.Hour),
		},
		{
			// Boundary instant: the window is an open interval.
			ID: "c3", Name: "CS70",
			EnrollmentStart: now,
			EnrollmentEnd:   now.Add(time.Hour),
		},
	}}
	svc := NewCourseService(courses, &mockCatalogSectionRepo{}, nil)
	svc.now = func() time.Time { return now }

	entries, err := svc.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].EnrollmentOpen)
	assert.False(t, entries[1].EnrollmentOpen)
	assert.False(t, entries[2].EnrollmentOpen)
}

func TestListSectionsUnknownCourse(t *testing.T) {
	courses := &mockCatalogCourseRepo{byName: map[string]*models.Course{}}
	svc := NewCourseService(courses, &mockCatalogSectionRepo{}, nil)

	_, _, err := svc.ListSections(context.Background(), "CS999")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestListSectionsReturnsCourseAndSections(t *testing.T) {
	course := &models.Course{ID: "c1", Name: "CS61A"}
	courses := &mockCatalogCourseRepo{byName: map[string]*models.Course{"CS61A": course}}
	sections := &mockCatalogSectionRepo{sections: []models.SectionDetail{
		{Section: models.Section{ID: "s1", CourseID: "c1", Capacity: 4}},
	}}
	svc := NewCourseService(courses, sections, nil)

	got, list, err := svc.ListSections(context.Background(), "CS61A")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)
}
