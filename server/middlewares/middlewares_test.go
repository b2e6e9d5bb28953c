package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", AdminKey(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestAdminKeyAcceptsMatchingKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("X-Admin-Key", "s3cret")
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestAdminKeyRejectsWrongKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminKeyRejectsMissingHeader(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminKeyFailsClosedWhenUnconfigured(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("X-Admin-Key", "anything")
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
