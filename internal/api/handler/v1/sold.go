package v1

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/merchant-admin/internal/api/handler/v1/request"
	"github.com/storefront/merchant-admin/internal/api/handler/v1/response"
	"github.com/storefront/merchant-admin/internal/api/middleware"
	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SalesService interface {
	List(ctx context.Context, sess domain.Session, rng service.DateRange) (backend.Response, error)
	Add(ctx context.Context, sess domain.Session, input map[string]any) (backend.Response, error)
	Export(ctx context.Context, sess domain.Session, rng service.DateRange, w io.Writer) error
}

type SalesHandler struct {
	svc SalesService
}

func NewSalesHandler(svc SalesService) *SalesHandler {
	return &SalesHandler{
		svc: svc,
	}
}

func bindDateRange(ctx *gin.Context) (service.DateRange, *response.Err) {
	var q request.DateRangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		return service.DateRange{}, response.ErrBadRequest(err)
	}

	rng, err := q.Range()
	if err != nil {
		return service.DateRange{}, response.FromError(err)
	}

	return rng, nil
}

// HandleListSoldItems godoc
// @Summary      List sold items
// @Tags         sold
// @Produce      json
// @Param        from  query     string  false  "first day, inclusive"
// @Param        to    query     string  false  "last day, inclusive"
// @Success      200   {object}  response.Data
// @Failure      400   {object}  response.Err
// @Failure      401   {object}  response.Err
// @Router       /sold [get]
func (h *SalesHandler) HandleListSoldItems(ctx *gin.Context) {
	rng, respErr := bindDateRange(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	resp, err := h.svc.List(ctx.Request.Context(), middleware.SessionFrom(ctx), rng)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	response.RenderData(ctx, resp.StatusCode, resp.Body)
}

// HandleAddSoldItem godoc
// @Summary      Record a sale
// @Tags         sold
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "product_id, quantity, timestamp"
// @Success      201      {object}  response.Data
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /sold [post]
func (h *SalesHandler) HandleAddSoldItem(ctx *gin.Context) {
	fields, err := request.DecodeFields(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	resp, err := h.svc.Add(ctx.Request.Context(), middleware.SessionFrom(ctx), fields)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	response.RenderData(ctx, resp.StatusCode, resp.Body)
}

// HandleExportSoldItems godoc
// @Summary      Export sold items as XLSX
// @Tags         sold
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query     string  false  "first day, inclusive"
// @Param        to    query     string  false  "last day, inclusive"
// @Success      200
// @Failure      401   {object}  response.Err
// @Router       /sold/export [get]
func (h *SalesHandler) HandleExportSoldItems(ctx *gin.Context) {
	rng, respErr := bindDateRange(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(ctx.Request.Context(), middleware.SessionFrom(ctx), rng, &buf); err != nil {
		response.RenderErr(ctx, response.FromError(fmt.Errorf("v1.HandleExportSoldItems -> h.svc.Export -> %w", err)))
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="sold_items.xlsx"`)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
