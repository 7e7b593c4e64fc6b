package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/merchant-admin/internal/service"
)

const (
	msgUnauthorized = "Unauthorized: Missing credentials"
	msgInternal     = "An unexpected error occurred."
	msgValidation   = "Invalid request"
)

// Err is the body of every failed request.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"error"`
	Details        any    `json:"details,omitempty"`

	cause error
}

func (e *Err) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}

	return e.Message
}

func RenderErr(ctx *gin.Context, e *Err) {
	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

// Data wraps a successful body.
type Data struct {
	Data any `json:"data"`
}

// RenderData writes status with body wrapped as {"data": body}. A raw
// backend body is embedded verbatim. 204 carries no body.
func RenderData(ctx *gin.Context, status int, body any) {
	if status == http.StatusNoContent {
		ctx.Status(status)
		return
	}

	if raw, ok := body.(json.RawMessage); ok {
		if len(raw) == 0 {
			body = nil
		} else if !json.Valid(raw) {
			body = string(raw)
		}
	}

	ctx.JSON(status, Data{Data: body})
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        err.Error(),
		cause:          err,
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        msgUnauthorized,
		cause:          err,
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        fmt.Sprintf("%s with %s %v not found", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		Message:        err.Error(),
		cause:          err,
	}
}

func ErrValidation(err *service.ValidationError) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        msgValidation + ": " + err.Error(),
		Details:        err.Fields,
		cause:          err,
	}
}

// ErrBackend passes the backend status and message through.
func ErrBackend(err *service.BackendError) *Err {
	e := &Err{
		HTTPStatusCode: err.StatusCode,
		Message:        err.Message,
		cause:          err,
	}
	if len(err.Details) > 0 {
		e.Details = err.Details
	}

	return e
}

// ErrInternalServerError logs err and hides it from the client.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        msgInternal,
		cause:          err,
	}
}

// FromError maps a service error onto the matching response.
func FromError(err error) *Err {
	if errors.Is(err, service.ErrUnauthorized) {
		return ErrUnauthorized(err)
	}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ErrValidation(ve)
	}

	var be *service.BackendError
	if errors.As(err, &be) {
		return ErrBackend(be)
	}

	return ErrInternalServerError(err)
}
