package api

import (
	"log/slog"
	"net/http"
	"strconv"

	reqdto "slot-reservation-engine/internal/handler/dto/request"
	resdto "slot-reservation-engine/internal/handler/dto/response"
	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/handler/middleware"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.ConfirmationCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.ConfirmationCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

type confirmFunc func(c *gin.Context, in commands.ConfirmInput) (*commands.ConfirmResult, error)

// @Summary Confirm a card booking
// @Description Reconcile the booking's payment intent with the gateway and confirm the slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmRequest false "Optional evidence"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.confirm(c, func(c *gin.Context, in commands.ConfirmInput) (*commands.ConfirmResult, error) {
		return h.cmds.Confirm(c.Request.Context(), in)
	})
}

// @Summary Attest a cash payment
// @Description Resource owner or admin confirms that a cash booking was paid
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmRequest false "Optional evidence"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/attest-cash [post]
func (h *BookingHandler) AttestCash(c *gin.Context) {
	h.confirm(c, func(c *gin.Context, in commands.ConfirmInput) (*commands.ConfirmResult, error) {
		return h.cmds.AttestCash(c.Request.Context(), in)
	})
}

func (h *BookingHandler) confirm(c *gin.Context, run confirmFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.ConfirmRequest
	if c.Request.ContentLength != 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
			return
		}
	}

	if _, err := run(c, commands.ConfirmInput{BookingID: id, Actor: principal, Evidence: req.ToEvidence()}); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to load confirmed booking", "booking_id", id.String(), "error", err.Error())
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	writeBookingView(c, view)
}

// @Summary Get booking
// @Description Visible to the customer, the resource owner and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	writeBookingView(c, view)
}

// @Summary List my bookings
// @Description Newest first with keyset pagination
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.BookingListItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListMine(c.Request.Context(), principal, cursor, limit)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	list, err := resdto.FromBookingList(items)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render bookings", nil)
		return
	}
	resp := gin.H{"bookings": list}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

func writeBookingView(c *gin.Context, view *queries.BookingView) {
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render booking", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
