package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type attendanceRepo interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	UpdatePresence(ctx context.Context, id, presence string) error
}

type attendanceStudentRepo interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.StudentDetail, error)
}

type presenceCodeSource interface {
	Codes(ctx context.Context) (models.PresenceSet, error)
}

// UpdatePresenceRequest carries a mentor's presence change for one record.
type UpdatePresenceRequest struct {
	Presence string `json:"presence"`
}

// AttendanceService serves attendance rows and presence updates. Records
// travel to clients as flat date-ascending lists; week grouping happens on
// the consumer side.
type AttendanceService struct {
	attendances attendanceRepo
	students    attendanceStudentRepo
	presence    presenceCodeSource
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(
	attendances attendanceRepo,
	students attendanceStudentRepo,
	presence presenceCodeSource,
	validate *validator.Validate,
	logger *zap.Logger,
) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		attendances: attendances,
		students:    students,
		presence:    presence,
		validate:    validate,
		logger:      logger,
	}
}

// ListForStudent returns the student's records, oldest first. Students see
// only their own history; mentors and coordinators see any.
func (s *AttendanceService) ListForStudent(ctx context.Context, user *models.User, studentID string) ([]models.AttendanceRecord, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up student")
	}
	if student == nil {
		return nil, appErrors.ErrNotFound
	}
	if student.UserID != user.ID && user.Role == models.RoleStudent {
		return nil, appErrors.ErrForbidden
	}

	records, err := s.attendances.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendances")
	}
	return records, nil
}

// ListForSection returns every student's records for the section, for the
// mentor roster view.
func (s *AttendanceService) ListForSection(ctx context.Context, sectionID string) ([]models.AttendanceRecord, error) {
	records, err := s.attendances.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list section attendances")
	}
	return records, nil
}

// Roster returns the section's enrolled students with identity details.
func (s *AttendanceService) Roster(ctx context.Context, sectionID string) ([]models.StudentDetail, error) {
	roster, err := s.students.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	return roster, nil
}

// RecordPresence sets the presence code on a record. Only mentors and
// coordinators may write; the code must belong to the configured set, where
// the empty string is itself a valid member.
func (s *AttendanceService) RecordPresence(ctx context.Context, user *models.User, studentID, attendanceID string, req UpdatePresenceRequest) (*models.AttendanceRecord, error) {
	if user.Role == models.RoleStudent {
		return nil, appErrors.ErrForbidden
	}

	record, err := s.attendances.FindByID(ctx, attendanceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up attendance")
	}
	if record == nil || record.StudentID != studentID {
		return nil, appErrors.ErrNotFound
	}

	code := strings.ToUpper(strings.TrimSpace(req.Presence))
	codes, err := s.presence.Codes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load presence codes")
	}
	if !codes.Contains(code) {
		return nil, appErrors.Wrap(nil, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown presence code")
	}

	if err := s.attendances.UpdatePresence(ctx, attendanceID, code); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update presence")
	}

	record.Presence = code
	s.logger.Info("presence recorded",
		zap.String("attendance_id", attendanceID),
		zap.String("presence", code),
		zap.String("updated_by", user.ID))
	return record, nil
}
