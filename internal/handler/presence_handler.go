package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/service"
	"github.com/csmentors/scheduler-api/pkg/response"
)

// PresenceHandler exposes the configured presence-code set so clients can
// render labels and colors without hardcoding the taxonomy.
type PresenceHandler struct {
	presence *service.PresenceService
	logger   *zap.Logger
}

// NewPresenceHandler constructs the presence-code handler.
func NewPresenceHandler(presence *service.PresenceService, logger *zap.Logger) *PresenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceHandler{presence: presence, logger: logger}
}

// List godoc
// @Summary      List the presence-code set
// @Tags         config
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Envelope{data=[]models.PresenceCode}
// @Router       /config/presence-codes [get]
func (h *PresenceHandler) List(c *gin.Context) {
	codes, err := h.presence.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, codes)
}
