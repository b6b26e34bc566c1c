package middleware

import (
	"log/slog"
	"net/http"

	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	codeInternal        = "INTERNAL"
	maxLoggedStackLines = 12
)

// ErrorHandler renders the last public error recorded by httperr when the handler wrote nothing.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) == 0 {
			if status := c.Writer.Status(); status != http.StatusOK {
				c.Status(status)
				c.Writer.WriteHeaderNow()
			}
			return
		}

		err := c.Errors.Last().Err
		slog.ErrorContext(c.Request.Context(), "unhandled request error",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, maxLoggedStackLines))
		c.JSON(http.StatusInternalServerError, internalResponse())
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(c.Request.Context(), "recovered from panic",
					"request_id", GetRequestID(c), "error", err, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalResponse())
			}
		}()
		c.Next()
	}
}

func internalResponse() httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Code = codeInternal
	resp.Error.Message = "Internal server error"
	return resp
}
