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
)

type ProductService interface {
	Add(ctx context.Context, sess domain.Session, input map[string]any) (backend.Response, error)
	List(ctx context.Context, sess domain.Session) (backend.Response, error)
	Update(ctx context.Context, sess domain.Session, input map[string]any) (backend.Response, error)
	Delete(ctx context.Context, sess domain.Session, id string) (backend.Response, error)
	Export(ctx context.Context, sess domain.Session, w io.Writer) error
}

type ProductHandler struct {
	svc ProductService
}

func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{
		svc: svc,
	}
}

// HandleListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  response.Data
// @Failure      401  {object}  response.Err
// @Failure      502  {object}  response.Err
// @Router       /products [get]
func (h *ProductHandler) HandleListProducts(ctx *gin.Context) {
	resp, err := h.svc.List(ctx.Request.Context(), middleware.SessionFrom(ctx))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	response.RenderData(ctx, resp.StatusCode, resp.Body)
}

// HandleAddProduct godoc
// @Summary      Add a product
// @Description  Fields outside the product whitelist are dropped; store_id is set by the server
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "name, purchase_price, max_sell_price, quantity, category, date"
// @Success      201      {object}  response.Data
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /products [post]
func (h *ProductHandler) HandleAddProduct(ctx *gin.Context) {
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

// HandleUpdateProduct godoc
// @Summary      Update a product
// @Description  The body carries the product id and the fields to change
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "id plus any of name, purchase_price, max_sell_price, quantity, category, date"
// @Success      200      {object}  response.Data
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /products [patch]
func (h *ProductHandler) HandleUpdateProduct(ctx *gin.Context) {
	fields, err := request.DecodeFields(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	resp, err := h.svc.Update(ctx.Request.Context(), middleware.SessionFrom(ctx), fields)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	response.RenderData(ctx, resp.StatusCode, resp.Body)
}

// HandleDeleteProduct godoc
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "product id"
// @Success      200  {object}  response.Data
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /products/{id} [delete]
func (h *ProductHandler) HandleDeleteProduct(ctx *gin.Context) {
	resp, err := h.svc.Delete(ctx.Request.Context(), middleware.SessionFrom(ctx), ctx.Param("id"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	response.RenderData(ctx, resp.StatusCode, resp.Body)
}

// HandleExportProducts godoc
// @Summary      Export products as CSV
// @Tags         products
// @Produce      text/csv
// @Success      200
// @Failure      401  {object}  response.Err
// @Router       /products/export [get]
func (h *ProductHandler) HandleExportProducts(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Export(ctx.Request.Context(), middleware.SessionFrom(ctx), &buf); err != nil {
		response.RenderErr(ctx, response.FromError(fmt.Errorf("v1.HandleExportProducts -> h.svc.Export -> %w", err)))
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="products.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
