package api

import (
	"net/http"
	"strings"

	reqdto "slot-reservation-engine/internal/handler/dto/request"
	resdto "slot-reservation-engine/internal/handler/dto/response"
	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/handler/middleware"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	cmds commands.CheckoutCommands
}

func NewCheckoutHandler(cmds commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{cmds: cmds}
}

// @Summary Check out a slot
// @Description Price a slot for an interval and open a PENDING booking; card bookings also receive a payment intent client secret
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; a retry with the same key and body replays the first result"
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	in, err := req.ToInput(principal)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	key, err := idempotencyKey(c)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, "INVALID_IDEMPOTENCY_KEY", "Idempotency-Key must be a UUID", nil)
		return
	}
	in.IdempotencyKey = key

	result, err := h.cmds.Checkout(c.Request.Context(), in)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	middleware.SetBookingID(c, result.BookingID)
	c.Header("Location", "/api/bookings/"+result.BookingID.String())
	if result.Replayed {
		c.Header(middleware.HeaderIdempotentReplayed, "true")
	}
	c.JSON(http.StatusCreated, resdto.FromCheckoutResult(result))
}

// idempotencyKey returns nil when the header is absent.
func idempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(err, "invalid idempotency key")
	}
	return &key, nil
}
