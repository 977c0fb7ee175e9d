package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type fakeValidator struct {
	claims *models.JWTClaims
}

func (f *fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good-token" || f.claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return f.claims, nil
}

type fakeUserLoader struct {
	user *models.User
}

func (f *fakeUserLoader) FindByID(_ context.Context, _ string) (*models.User, error) {
	return f.user, nil
}

func authRouter(validator *fakeValidator, users *fakeUserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(validator, users, nil))
	r.GET("/whoami", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func request(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := authRouter(
		&fakeValidator{claims: &models.JWTClaims{UserID: "user-1"}},
		&fakeUserLoader{user: &models.User{ID: "user-1", Active: true}},
	)
	w := request(r, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r := authRouter(&fakeValidator{}, &fakeUserLoader{})
	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadToken(t *testing.T) {
	r := authRouter(&fakeValidator{}, &fakeUserLoader{})
	w := request(r, "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsInactiveUser(t *testing.T) {
	r := authRouter(
		&fakeValidator{claims: &models.JWTClaims{UserID: "user-1"}},
		&fakeUserLoader{user: &models.User{ID: "user-1", Active: false}},
	)
	w := request(r, "Bearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesGates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.User{ID: "user-1", Role: models.RoleStudent})
	})
	r.GET("/mentor-only", RequireRoles(models.RoleMentor, models.RoleCoordinator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mentor-only", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
