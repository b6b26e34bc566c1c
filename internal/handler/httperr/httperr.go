package httperr

import (
	"net/http"

	"slot-reservation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, err, "", msg, detail)
}

func AbortWithCode(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// StatusFor maps an error category to the HTTP status the API reports for it.
func StatusFor(category errs.Category) int {
	switch category {
	case errs.CategoryValidation:
		return http.StatusBadRequest
	case errs.CategoryNotFound:
		return http.StatusNotFound
	case errs.CategoryForbidden:
		return http.StatusForbidden
	case errs.CategoryConflict:
		return http.StatusConflict
	case errs.CategoryPaymentMismatch:
		return http.StatusPaymentRequired
	case errs.CategoryGatewayUnavailable, errs.CategoryTransientStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
