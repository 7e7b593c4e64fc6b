package service

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/endpoint"
	"github.com/storefront/merchant-admin/internal/metrics"
)

type BackendClient interface {
	Do(ctx context.Context, call backend.Call) (backend.Response, error)
}

type EndpointRegistry interface {
	Resolve(op endpoint.Operation, params ...string) (endpoint.Endpoint, error)
	IsPublic(op endpoint.Operation) bool
}

// proxy holds what every backend-facing service shares: the registry to
// resolve URLs and the client to call them.
type proxy struct {
	client    BackendClient
	endpoints EndpointRegistry
	now       func() time.Time
}

func newProxy(client BackendClient, endpoints EndpointRegistry) proxy {
	return proxy{
		client:    client,
		endpoints: endpoints,
		now:       time.Now,
	}
}

// authorize gates op on the session. It returns the token to forward, which
// is empty for a public operation called without a session.
func (p proxy) authorize(sess domain.Session, op endpoint.Operation) (string, error) {
	if sess.Valid(p.now()) {
		return sess.Token, nil
	}
	if p.endpoints.IsPublic(op) {
		return "", nil
	}
	metrics.ObserveRejected(string(op), "unauthorized")

	return "", ErrUnauthorized
}

func (p proxy) reject(op endpoint.Operation, err error) error {
	metrics.ObserveRejected(string(op), "validation")

	return err
}

func (p proxy) forward(ctx context.Context, token string, op endpoint.Operation, body any, params ...string) (backend.Response, error) {
	ep, err := p.endpoints.Resolve(op, params...)
	if err != nil {
		return backend.Response{}, fmt.Errorf("p.endpoints.Resolve -> %w", err)
	}

	resp, err := p.client.Do(ctx, backend.Call{
		Endpoint: ep,
		Token:    token,
		Body:     body,
	})
	if err != nil {
		return backend.Response{}, fmt.Errorf("p.client.Do -> %w", err)
	}

	return resp, nil
}
