package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/enrollment"
	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type courseRepo interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByName(ctx context.Context, name string) (*models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type courseSectionRepo interface {
	ListByCourse(ctx context.Context, courseID string, now time.Time) ([]models.SectionDetail, error)
	FindDetailByID(ctx context.Context, id string, now time.Time) (*models.SectionDetail, error)
}

// CourseCatalogEntry pairs a course with its current enrollment-window
// state, evaluated once at fetch time.
type CourseCatalogEntry struct {
	models.Course
	EnrollmentOpen bool `json:"enrollment_open"`
}

// CourseService serves the read-only catalog: courses and their sections.
type CourseService struct {
	courses  courseRepo
	sections courseSectionRepo
	logger   *zap.Logger
	now      func() time.Time
}

// NewCourseService constructs the catalog service.
func NewCourseService(courses courseRepo, sections courseSectionRepo, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:  courses,
		sections: sections,
		logger:   logger,
		now:      time.Now,
	}
}

// ListCourses returns the catalog with each course's window state resolved
// against a single shared clock reading.
func (s *CourseService) ListCourses(ctx context.Context) ([]CourseCatalogEntry, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	now := s.now()
	entries := make([]CourseCatalogEntry, 0, len(courses))
	for _, c := range courses {
		entries = append(entries, CourseCatalogEntry{
			Course:         c,
			EnrollmentOpen: enrollment.WindowOpen(now, c.EnrollmentStart, c.EnrollmentEnd),
		})
	}
	return entries, nil
}

// ListSections returns every section of the named course with effective
// spacetimes resolved for today.
func (s *CourseService) ListSections(ctx context.Context, courseName string) (*models.Course, []models.SectionDetail, error) {
	course, err := s.courses.FindByName(ctx, courseName)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up course")
	}
	if course == nil {
		return nil, nil, appErrors.ErrNotFound
	}

	sections, err := s.sections.ListByCourse(ctx, course.ID, s.now())
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return course, sections, nil
}

// GetSection returns a single section with its live occupancy.
func (s *CourseService) GetSection(ctx context.Context, sectionID string) (*models.SectionDetail, error) {
	section, err := s.sections.FindDetailByID(ctx, sectionID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up section")
	}
	if section == nil {
		return nil, appErrors.ErrNotFound
	}
	return section, nil
}
