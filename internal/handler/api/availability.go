package api

import (
	"net/http"
	"time"

	resdto "slot-reservation-engine/internal/handler/dto/response"
	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Resource availability
// @Description Remaining capacity per zone for an interval; only confirmed bookings occupy a slot
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Param from query string true "Interval start (RFC3339)"
// @Param to query string true "Interval end (RFC3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/availability [get]
func (h *AvailabilityHandler) Availability(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource id", nil)
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from", nil)
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to", nil)
		return
	}

	view, err := h.q.Availability(c.Request.Context(), resourceID, from, to)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
