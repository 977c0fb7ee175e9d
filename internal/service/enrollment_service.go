package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/enrollment"
	"github.com/csmentors/scheduler-api/internal/models"
	"github.com/csmentors/scheduler-api/internal/repository"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type enrollmentStudentRepo interface {
	ListProfilesByUser(ctx context.Context, userID string) ([]models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsInCourse(ctx context.Context, userID, courseID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type enrollmentSectionRepo interface {
	FindDetailByID(ctx context.Context, id string, now time.Time) (*models.SectionDetail, error)
	CountEnrolled(ctx context.Context, sectionID string) (int, error)
}

type enrollmentCourseRepo interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type enrollmentAttendanceRepo interface {
	Create(ctx context.Context, studentID string, date time.Time, presence string) (string, error)
}

type occupancyCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EnrollmentService is the authoritative gate for joining and leaving
// sections. The same checks run client-side as a pre-flight; this layer is
// the one whose answer counts.
type EnrollmentService struct {
	students     enrollmentStudentRepo
	sections     enrollmentSectionRepo
	courses      enrollmentCourseRepo
	attendances  enrollmentAttendanceRepo
	cache        occupancyCache
	occupancyTTL time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewEnrollmentService constructs the enrollment service. cache may be nil.
func NewEnrollmentService(
	students enrollmentStudentRepo,
	sections enrollmentSectionRepo,
	courses enrollmentCourseRepo,
	attendances enrollmentAttendanceRepo,
	cache occupancyCache,
	occupancyTTL time.Duration,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if occupancyTTL <= 0 {
		occupancyTTL = 30 * time.Second
	}
	return &EnrollmentService{
		students:     students,
		sections:     sections,
		courses:      courses,
		attendances:  attendances,
		cache:        cache,
		occupancyTTL: occupancyTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// ListProfiles returns the caller's section memberships across both roles.
func (s *EnrollmentService) ListProfiles(ctx context.Context, userID string) ([]models.Profile, error) {
	profiles, err := s.students.ListProfilesByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profiles")
	}
	return profiles, nil
}

// Enroll joins the user to a section. Checks run in a fixed order so the
// rejection short code is deterministic: duplicate membership, then the
// enrollment window, then capacity.
func (s *EnrollmentService) Enroll(ctx context.Context, user *models.User, sectionID string) (*models.Student, error) {
	now := s.now()

	section, err := s.sections.FindDetailByID(ctx, sectionID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up section")
	}
	if section == nil {
		return nil, appErrors.ErrNotFound
	}

	course, err := s.courses.FindByID(ctx, section.CourseID)
	if err != nil || course == nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up course")
	}

	enrolled, err := s.students.ExistsInCourse(ctx, user.ID, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if enrolled {
		return nil, appErrors.ErrAlreadyEnrolled
	}

	if !enrollment.WindowOpen(now, course.EnrollmentStart, course.EnrollmentEnd) {
		return nil, appErrors.ErrCourseClosed
	}

	// Count at decision time rather than trusting the listing snapshot.
	// The cached count is exact: every write path invalidates it.
	count, err := s.enrolledCount(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollment")
	}
	if count >= section.Capacity {
		return nil, appErrors.ErrSectionFull
	}

	student := &models.Student{
		UserID:    user.ID,
		SectionID: sectionID,
		CourseID:  course.ID,
		JoinedAt:  now,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.seedAttendances(ctx, student, section, course, now)
	s.invalidateOccupancy(ctx, sectionID)

	s.logger.Info("student enrolled",
		zap.String("user_id", user.ID),
		zap.String("section_id", sectionID),
		zap.String("course", course.Name))
	return student, nil
}

// Drop removes the student profile. Students may drop only themselves;
// coordinators may drop anyone.
func (s *EnrollmentService) Drop(ctx context.Context, user *models.User, studentID string) error {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up student")
	}
	if student == nil {
		return appErrors.ErrNotFound
	}
	if student.UserID != user.ID && user.Role != models.RoleCoordinator {
		return appErrors.ErrForbidden
	}

	if err := s.students.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop student")
	}

	s.invalidateOccupancy(ctx, student.SectionID)
	s.logger.Info("student dropped",
		zap.String("student_id", studentID),
		zap.String("section_id", student.SectionID))
	return nil
}

// seedAttendances creates a blank record for each remaining weekly
// occurrence of the section up to the course's end of validity. Failures
// here do not undo the enrollment.
func (s *EnrollmentService) seedAttendances(ctx context.Context, student *models.Student, section *models.SectionDetail, course *models.Course, now time.Time) {
	spacetime := section.Spacetime.Effective(section.Override, now)
	first := nextOccurrence(now, spacetime.DayOfWeek)
	for date := first; !date.After(course.ValidUntil); date = date.AddDate(0, 0, 7) {
		if _, err := s.attendances.Create(ctx, student.ID, date, ""); err != nil {
			s.logger.Warn("failed to seed attendance",
				zap.String("student_id", student.ID),
				zap.Time("date", date),
				zap.Error(err))
			return
		}
	}
}

// enrolledCount serves a section's occupancy, cache first. A miss recounts
// from the database and repopulates the entry for occupancyTTL.
func (s *EnrollmentService) enrolledCount(ctx context.Context, sectionID string) (int, error) {
	key := repository.OccupancyCacheKey(sectionID)
	if s.cache != nil {
		var cached int
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("occupancy cache read failed",
				zap.String("section_id", sectionID), zap.Error(err))
		}
	}

	count, err := s.sections.CountEnrolled(ctx, sectionID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, s.occupancyTTL); err != nil {
			s.logger.Warn("occupancy cache write failed",
				zap.String("section_id", sectionID), zap.Error(err))
		}
	}
	return count, nil
}

func (s *EnrollmentService) invalidateOccupancy(ctx context.Context, sectionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, repository.OccupancyCacheKey(sectionID)); err != nil {
		s.logger.Warn("failed to invalidate occupancy cache",
			zap.String("section_id", sectionID), zap.Error(err))
	}
}

// nextOccurrence returns the next calendar date (today included) falling on
// the given weekday.
func nextOccurrence(now time.Time, day models.DayOfWeek) time.Time {
	y, m, d := now.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	target := models.DayNumber(day)
	current := (int(date.Weekday()) + 6) % 7
	delta := (target - current + 7) % 7
	return date.AddDate(0, 0, delta)
}
