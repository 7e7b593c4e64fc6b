package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/merchant-admin/internal/endpoint"
	"github.com/storefront/merchant-admin/internal/metrics"
)

const maxBodySize = 10 << 20

// Call is one request to the backend.
type Call struct {
	Endpoint endpoint.Endpoint
	Token    string
	Body     any
}

// Response is a successful backend response, passed through untouched.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

type Client struct {
	http    *http.Client
	timeout time.Duration
}

func NewClient(httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		http:    httpClient,
		timeout: timeout,
	}
}

// Do performs call. Any non-2xx status, transport failure or timeout is
// returned as *Error.
func (c *Client) Do(ctx context.Context, call Call) (Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if call.Body != nil {
		encoded, err := json.Marshal(call.Body)
		if err != nil {
			return Response{}, fmt.Errorf("json.Marshal -> %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, call.Endpoint.Method, call.Endpoint.URL(), body)
	if err != nil {
		return Response{}, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.Token != "" {
		req.Header.Set("Authorization", "Bearer "+call.Token)
	}

	op := string(call.Endpoint.Operation)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveBackendCall(op, 0, time.Since(start))

		return Response{}, transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.ObserveBackendCall(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return Response{}, transportError(ctx, op, err)
	}

	zap.L().Debug("backend call",
		zap.String("operation", op),
		zap.String("method", call.Endpoint.Method),
		zap.String("path", call.Endpoint.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, statusError(resp.StatusCode, raw)
	}

	return Response{
		StatusCode: resp.StatusCode,
		Body:       raw,
	}, nil
}

func transportError(ctx context.Context, op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		zap.L().Warn("backend call timed out", zap.String("operation", op), zap.Error(err))

		return &Error{
			StatusCode: http.StatusGatewayTimeout,
			Message:    "The backend did not respond in time.",
			Timeout:    true,
			cause:      err,
		}
	}

	zap.L().Warn("backend call failed", zap.String("operation", op), zap.Error(err))

	return &Error{
		StatusCode: http.StatusBadGateway,
		Message:    "The backend is unavailable.",
		cause:      err,
	}
}
