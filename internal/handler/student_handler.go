package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/service"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
	"github.com/csmentors/scheduler-api/pkg/response"
)

// StudentHandler exposes per-student attendance history, presence updates
// and the drop operation.
type StudentHandler struct {
	attendance *service.AttendanceService
	enrollment *service.EnrollmentService
	metrics    *service.MetricsService
	logger     *zap.Logger
}

// NewStudentHandler constructs the student handler. metrics may be nil.
func NewStudentHandler(attendance *service.AttendanceService, enrollment *service.EnrollmentService, metrics *service.MetricsService, logger *zap.Logger) *StudentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentHandler{attendance: attendance, enrollment: enrollment, metrics: metrics, logger: logger}
}

// Attendances godoc
// @Summary      List a student's attendance records
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Student ID"
// @Success      200 {object} response.Envelope{data=[]models.AttendanceRecord}
// @Failure      403 {object} response.Envelope
// @Router       /students/{id}/attendances [get]
func (h *StudentHandler) Attendances(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.attendance.ListForStudent(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// UpdatePresence godoc
// @Summary      Record a presence code on an attendance record
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Student ID"
// @Param        attendanceID path string true "Attendance ID"
// @Param        request body service.UpdatePresenceRequest true "Presence code"
// @Success      200 {object} response.Envelope{data=models.AttendanceRecord}
// @Failure      400 {object} response.Envelope
// @Failure      403 {object} response.Envelope
// @Router       /students/{id}/attendances/{attendanceID} [patch]
func (h *StudentHandler) UpdatePresence(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req service.UpdatePresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.attendance.RecordPresence(c.Request.Context(), user, c.Param("id"), c.Param("attendanceID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPresenceUpdate(record.Presence)
	}
	response.JSON(c, http.StatusOK, record)
}

// Drop godoc
// @Summary      Drop a student from their section
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Student ID"
// @Success      204 "dropped"
// @Failure      403 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /students/{id}/drop [patch]
func (h *StudentHandler) Drop(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.enrollment.Drop(c.Request.Context(), user, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
