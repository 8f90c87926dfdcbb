package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/booking"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/event"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *booking.Service
}

func NewHandler(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes exposes intake; submissions are not gated.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup, tracker *event.TrackerMiddleware) {
	r.POST("/public/bookings", tracker.TrackEvent("booking", "created"), h.Submit)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup, tracker *event.TrackerMiddleware) {
	r.GET("/bookings", h.List)
	r.PATCH("/bookings/:id/status", tracker.TrackEvent("booking", "status_updated"), h.UpdateStatus)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitBookingRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if eventCtx := event.FromGin(c); eventCtx != nil {
		eventCtx.NewData = created
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, gin.H{
		"message": "booking received",
		"booking": created,
	})
}

func (h *Handler) List(c *gin.Context) {
	status := model.BookingStatus(c.Query("status"))

	bookings, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NotFound("booking"))
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	updated, err := h.svc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if eventCtx := event.FromGin(c); eventCtx != nil {
		eventCtx.NewData = updated
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"message": "booking updated",
		"booking": updated,
	})
}
