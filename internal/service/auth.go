package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/endpoint"
)

var ErrMissingAccessToken = errors.New("login response does not contain an access token")

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService struct {
	proxy
}

func NewAuthService(client BackendClient, endpoints EndpointRegistry) *AuthService {
	return &AuthService{
		proxy: newProxy(client, endpoints),
	}
}

// Login exchanges credentials for a backend token. It is the only operation
// that creates a session; on any failure the returned session is empty.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.Session, backend.Response, error) {
	in := loginInput{
		Email:    strings.TrimSpace(creds.Email),
		Password: creds.Password,
	}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
	if err != nil {
		return domain.Session{}, backend.Response{}, s.reject(endpoint.Login, asValidationError(err))
	}

	resp, err := s.forward(ctx, "", endpoint.Login, in)
	if err != nil {
		return domain.Session{}, backend.Response{}, fmt.Errorf("s.forward -> %w", err)
	}

	var out loginOutput
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return domain.Session{}, backend.Response{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if out.AccessToken == "" {
		return domain.Session{}, backend.Response{}, ErrMissingAccessToken
	}

	return domain.Session{Token: out.AccessToken}, resp, nil
}
