package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csmentors/scheduler-api/internal/enrollment"
	"github.com/csmentors/scheduler-api/internal/middleware"
	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
	"github.com/csmentors/scheduler-api/pkg/response"
)

// currentUser fetches the authenticated user or writes a 401 and reports
// false. Handlers behind the auth middleware can trust a true result.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

func enrollmentOpen(start, end, now time.Time) bool {
	return enrollment.WindowOpen(now, start, end)
}
