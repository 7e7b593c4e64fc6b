package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storefront/merchant-admin/internal/api/handler/v1/request"
	"github.com/storefront/merchant-admin/internal/api/handler/v1/response"
	"github.com/storefront/merchant-admin/internal/api/middleware"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/service"
)

type EmployeeService interface {
	Register(ctx context.Context, sess domain.Session, employee domain.Employee) (domain.Employee, error)
	List(ctx context.Context, sess domain.Session, query string) ([]domain.Employee, error)
	Get(ctx context.Context, sess domain.Session, id uint) (domain.Employee, error)
	Delete(ctx context.Context, sess domain.Session, id uint) error
}

type EmployeeHandler struct {
	svc EmployeeService
}

func NewEmployeeHandler(svc EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		svc: svc,
	}
}

// HandleRegisterEmployee godoc
// @Summary      Register an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request  body      request.EmployeeRequest  true  "request body"
// @Success      201      {object}  response.Data{data=domain.Employee}
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /employees [post]
func (h *EmployeeHandler) HandleRegisterEmployee(ctx *gin.Context) {
	var req request.EmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	employee, err := h.svc.Register(ctx.Request.Context(), middleware.SessionFrom(ctx), req.Employee())
	if err != nil {
		if errors.Is(err, service.ErrEmployeePhoneExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrEmployeePhoneExists))
			return
		}

		response.RenderErr(ctx, response.FromError(fmt.Errorf("v1.HandleRegisterEmployee -> h.svc.Register -> %w", err)))
		return
	}

	response.RenderData(ctx, http.StatusCreated, employee)
}

// HandleListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        q    query     string  false  "name or phone filter"
// @Success      200  {object}  response.Data{data=[]domain.Employee}
// @Failure      401  {object}  response.Err
// @Router       /employees [get]
func (h *EmployeeHandler) HandleListEmployees(ctx *gin.Context) {
	employees, err := h.svc.List(ctx.Request.Context(), middleware.SessionFrom(ctx), ctx.Query("q"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(fmt.Errorf("v1.HandleListEmployees -> h.svc.List -> %w", err)))
		return
	}

	response.RenderData(ctx, http.StatusOK, employees)
}

// HandleGetEmployee godoc
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        employeeID  path      int  true  "employee id"
// @Success      200         {object}  response.Data{data=domain.Employee}
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Router       /employees/{employeeID} [get]
func (h *EmployeeHandler) HandleGetEmployee(ctx *gin.Context) {
	employeeID, err := strconv.ParseUint(ctx.Param("employeeID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid employee id")))
		return
	}

	employee, err := h.svc.Get(ctx.Request.Context(), middleware.SessionFrom(ctx), uint(employeeID))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("employee", "employeeID", employeeID))
			return
		}

		response.RenderErr(ctx, response.FromError(fmt.Errorf("v1.HandleGetEmployee -> h.svc.Get -> %w", err)))
		return
	}

	response.RenderData(ctx, http.StatusOK, employee)
}

// HandleDeleteEmployee godoc
// @Summary      Delete an employee
// @Tags         employees
// @Param        employeeID  path  int  true  "employee id"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /employees/{employeeID} [delete]
func (h *EmployeeHandler) HandleDeleteEmployee(ctx *gin.Context) {
	employeeID, err := strconv.ParseUint(ctx.Param("employeeID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid employee id")))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), middleware.SessionFrom(ctx), uint(employeeID)); err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("employee", "employeeID", employeeID))
			return
		}

		response.RenderErr(ctx, response.FromError(fmt.Errorf("v1.HandleDeleteEmployee -> h.svc.Delete -> %w", err)))
		return
	}

	ctx.Status(http.StatusNoContent)
}
