package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/dto"
	"github.com/csmentors/scheduler-api/internal/service"
	"github.com/csmentors/scheduler-api/pkg/response"
)

// CourseHandler exposes the read-only catalog: courses, their window
// state, and their sections.
type CourseHandler struct {
	courses    *service.CourseService
	enrollment *service.EnrollmentService
	logger     *zap.Logger
}

// NewCourseHandler constructs the catalog handler.
func NewCourseHandler(courses *service.CourseService, enrollment *service.EnrollmentService, logger *zap.Logger) *CourseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseHandler{courses: courses, enrollment: enrollment, logger: logger}
}

// ListCourses godoc
// @Summary      List the course catalog
// @Tags         scheduler
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Envelope{data=[]service.CourseCatalogEntry}
// @Router       /scheduler/courses/ [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	entries, err := h.courses.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// ListProfiles godoc
// @Summary      List the caller's section memberships
// @Tags         scheduler
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Envelope{data=[]models.Profile}
// @Router       /scheduler/profiles/ [get]
func (h *CourseHandler) ListProfiles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	profiles, err := h.enrollment.ListProfiles(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profiles)
}

// ListSections godoc
// @Summary      List a course's sections
// @Tags         scheduler
// @Produce      json
// @Security     BearerAuth
// @Param        name path string true "Course name"
// @Success      200 {object} response.Envelope{data=[]dto.SectionResponse}
// @Failure      404 {object} response.Envelope
// @Router       /scheduler/courses/{name}/sections/ [get]
func (h *CourseHandler) ListSections(c *gin.Context) {
	course, sections, err := h.courses.ListSections(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Overrides are resolved server-side: each row ships its effective
	// spacetime so list consumers never re-apply override rules.
	now := time.Now()
	out := make([]dto.SectionResponse, 0, len(sections))
	for _, s := range sections {
		effective := s.Spacetime.Effective(s.Override, now)
		overridden := s.Override != nil && !s.Override.Expired(now)
		out = append(out, dto.NewSectionResponse(s, overridden, effective))
	}

	response.JSON(c, http.StatusOK, out, map[string]interface{}{
		"course": dto.CourseResponse{
			ID:              course.ID,
			Name:            course.Name,
			Title:           course.Title,
			EnrollmentStart: course.EnrollmentStart.Format(time.RFC3339),
			EnrollmentEnd:   course.EnrollmentEnd.Format(time.RFC3339),
			EnrollmentOpen:  enrollmentOpen(course.EnrollmentStart, course.EnrollmentEnd, now),
		},
	})
}
