package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/dto"
	"github.com/csmentors/scheduler-api/internal/service"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
	"github.com/csmentors/scheduler-api/pkg/response"
)

// ReportHandler exposes asynchronous attendance-sheet exports.
type ReportHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler constructs the report handler.
func NewReportHandler(reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Request godoc
// @Summary      Request an attendance export for a section
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Section ID"
// @Param        request body dto.ReportRequest true "Export format"
// @Success      202 {object} response.Envelope{data=models.AttendanceReport}
// @Failure      400 {object} response.Envelope
// @Router       /sections/{id}/reports [post]
func (h *ReportHandler) Request(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	report, err := h.reports.Request(c.Request.Context(), user, c.Param("id"), req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, report)
}

// Get godoc
// @Summary      Fetch a report's status and download link
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Report ID"
// @Success      200 {object} response.Envelope{data=models.AttendanceReport}
// @Failure      404 {object} response.Envelope
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Download serves a completed report behind its signed token. The token is
// the only credential: links can be shared until they expire.
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	path, err := h.reports.ResolveDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, "attendance-report")
}
