package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/clinic-api/internal/service/analytics"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/summary", h.Summary)
	r.GET("/dashboard/charts", h.Charts)
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summarize(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"summary": summary})
}

func (h *Handler) Charts(c *gin.Context) {
	charts, err := h.svc.ChartSeries(c.Request.Context(), c.Query("range"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"charts": charts})
}
