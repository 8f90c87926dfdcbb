package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/catalog"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/event"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes exposes catalog reads; they are not gated.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.List)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup, tracker *event.TrackerMiddleware) {
	r.POST("/services", tracker.TrackEvent("service", "created"), h.Create)
	r.PUT("/services/:id", tracker.TrackEvent("service", "updated"), h.Update)
	r.DELETE("/services/:id", tracker.TrackEvent("service", "deleted"), h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	services, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	service, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if eventCtx := event.FromGin(c); eventCtx != nil {
		eventCtx.NewData = service
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, gin.H{
		"message": "service created",
		"service": service,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NotFound("service"))
		return
	}

	var req model.UpdateServiceRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	service, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if eventCtx := event.FromGin(c); eventCtx != nil {
		eventCtx.NewData = service
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"message": "service updated",
		"service": service,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NotFound("service"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if eventCtx := event.FromGin(c); eventCtx != nil {
		eventCtx.NewData = gin.H{"id": id}
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"message": "service deleted",
	})
}
