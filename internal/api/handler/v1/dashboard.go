package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/merchant-admin/internal/api/handler/v1/response"
	"github.com/storefront/merchant-admin/internal/api/middleware"
	"github.com/storefront/merchant-admin/internal/domain"
)

type DashboardService interface {
	Metrics(ctx context.Context, sess domain.Session) (domain.DashboardMetrics, error)
}

type DashboardHandler struct {
	svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
	}
}

// HandleGetDashboard godoc
// @Summary      Store metrics
// @Description  Aggregates products and sold items
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Data{data=domain.DashboardMetrics}
// @Failure      401  {object}  response.Err
// @Router       /dashboard [get]
func (h *DashboardHandler) HandleGetDashboard(ctx *gin.Context) {
	metrics, err := h.svc.Metrics(ctx.Request.Context(), middleware.SessionFrom(ctx))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	response.RenderData(ctx, http.StatusOK, metrics)
}
