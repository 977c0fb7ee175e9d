package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/dto"
	"github.com/csmentors/scheduler-api/internal/service"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
	"github.com/csmentors/scheduler-api/pkg/response"
)

// SectionHandler exposes section detail, enrollment and the mentor-facing
// roster.
type SectionHandler struct {
	catalog    *service.CourseService
	enrollment *service.EnrollmentService
	attendance *service.AttendanceService
	metrics    *service.MetricsService
	logger     *zap.Logger
}

// NewSectionHandler constructs the section handler. metrics may be nil.
func NewSectionHandler(catalog *service.CourseService, enrollment *service.EnrollmentService, attendance *service.AttendanceService, metrics *service.MetricsService, logger *zap.Logger) *SectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionHandler{catalog: catalog, enrollment: enrollment, attendance: attendance, metrics: metrics, logger: logger}
}

// Get godoc
// @Summary      Fetch one section with its live occupancy
// @Tags         scheduler
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Section ID"
// @Success      200 {object} response.Envelope{data=dto.SectionResponse}
// @Failure      404 {object} response.Envelope
// @Router       /scheduler/sections/{id} [get]
func (h *SectionHandler) Get(c *gin.Context) {
	section, err := h.catalog.GetSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	now := time.Now()
	effective := section.Spacetime.Effective(section.Override, now)
	overridden := section.Override != nil && !section.Override.Expired(now)
	response.JSON(c, http.StatusOK, dto.NewSectionResponse(*section, overridden, effective))
}

// Enroll godoc
// @Summary      Enroll the caller in a section
// @Tags         scheduler
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Section ID"
// @Success      201 {object} response.Envelope{data=dto.EnrollResponse}
// @Failure      409 {object} response.Envelope "already_enrolled"
// @Failure      422 {object} response.Envelope "course_closed or section_full"
// @Router       /scheduler/sections/{id}/enroll [post]
func (h *SectionHandler) Enroll(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	student, err := h.enrollment.Enroll(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.recordEnrollment(appErrors.FromError(err).Code)
		response.Error(c, err)
		return
	}

	h.recordEnrollment("enrolled")
	response.Created(c, dto.EnrollResponse{
		StudentID: student.ID,
		SectionID: student.SectionID,
		CourseID:  student.CourseID,
	})
}

// Roster godoc
// @Summary      List a section's enrolled students
// @Tags         sections
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Section ID"
// @Success      200 {object} response.Envelope{data=[]models.StudentDetail}
// @Router       /sections/{id}/students/ [get]
func (h *SectionHandler) Roster(c *gin.Context) {
	roster, err := h.attendance.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

// Attendances godoc
// @Summary      List a section's attendance records
// @Tags         sections
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Section ID"
// @Success      200 {object} response.Envelope{data=[]models.AttendanceRecord}
// @Router       /sections/{id}/attendances/ [get]
func (h *SectionHandler) Attendances(c *gin.Context) {
	records, err := h.attendance.ListForSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

func (h *SectionHandler) recordEnrollment(result string) {
	if h.metrics != nil {
		h.metrics.RecordEnrollment(result)
	}
}
