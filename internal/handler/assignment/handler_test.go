package assignment

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/middleware"
	"github.com/jwalitptl/hms-api/internal/model"
)

// Completing and canceling assignments must be rejected for non-admin
// principals before the handler runs.
func TestMutationRoutesRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(handler.CtxPrincipalID, uuid.NewString())
		c.Set(handler.CtxPrincipalRole, string(model.RolePatient))
	})

	adminOnly := middleware.NewAuthMiddleware(nil, nil).RequireRole(model.RoleAdmin)
	h := NewHandler(nil, adminOnly)
	h.RegisterRoutes(engine.Group("/api/v1"))

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/assignments/cancel"},
		{http.MethodDelete, "/api/v1/assignments/" + uuid.NewString()},
	}
	for _, req := range requests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(req.method, req.path, nil))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s must reject non-admin callers", req.method, req.path)
	}
}
