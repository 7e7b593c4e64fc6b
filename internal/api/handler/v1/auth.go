package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/merchant-admin/internal/api/handler/v1/request"
	"github.com/storefront/merchant-admin/internal/api/handler/v1/response"
	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, backend.Response, error)
}

type SessionStore interface {
	Write(ctx *gin.Context, sess domain.Session)
	Clear(ctx *gin.Context)
}

type AuthHandler struct {
	store SessionStore
	svc   AuthService
}

func NewAuthHandler(store SessionStore, svc AuthService) *AuthHandler {
	return &AuthHandler{
		store: store,
		svc:   svc,
	}
}

// HandleLogin godoc
// @Summary      Login an admin
// @Description  Exchanges credentials for a backend token stored in the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.Data
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	sess, resp, err := h.svc.Login(ctx.Request.Context(), req.Credentials())
	if err != nil {
		if errors.Is(err, service.ErrMissingAccessToken) {
			err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))

			return
		}
		response.RenderErr(ctx, response.FromError(err))

		return
	}

	h.store.Write(ctx, sess)
	response.RenderData(ctx, resp.StatusCode, resp.Body)
}

// HandleLogout godoc
// @Summary      Logout
// @Description  Clears the session cookie
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	h.store.Clear(ctx)
	ctx.Status(http.StatusNoContent)
}
