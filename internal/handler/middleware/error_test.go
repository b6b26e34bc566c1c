//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/handler/middleware"
	"slot-reservation-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery(), middleware.ErrorHandler())

	r.GET("/panic", func(*gin.Context) { panic("boom") })
	r.GET("/private", func(c *gin.Context) { _ = c.Error(errors.New("driver exploded")) })
	r.GET("/public", func(c *gin.Context) {
		httperr.AbortWithCode(c, http.StatusConflict, errors.New("taken"), "SLOT_NOT_AVAILABLE", "slot not available", nil)
	})
	r.GET("/no-content", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("panic is rendered as internal error", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/panic", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
		httptest.AssertErrorCode(t, rec, "INTERNAL")
	})

	t.Run("unrendered private error becomes 500", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})

	t.Run("public error keeps its status and code", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "slot not available")
		httptest.AssertErrorCode(t, rec, "SLOT_NOT_AVAILABLE")
	})

	t.Run("explicit status without body passes through", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/no-content", nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusNoContent, nil)
	})
}
