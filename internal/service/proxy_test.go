package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/config"
	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/endpoint"
)

type recordedCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// fakeBackend records every request and answers with the route registered
// for "METHOD /path", or 404.
type fakeBackend struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, routes: make(map[string]http.HandlerFunc)}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.srv.Close)

	return fb
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	call := recordedCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
	}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	fb.mu.Lock()
	fb.calls = append(fb.calls, call)
	h, ok := fb.routes[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
		return
	}
	h(w, r)
}

func (fb *fakeBackend) on(method, path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[method+" "+path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (fb *fakeBackend) Calls() []recordedCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	return append([]recordedCall(nil), fb.calls...)
}

func (fb *fakeBackend) registry(publicList bool) *endpoint.Registry {
	fb.t.Helper()
	trailing := true
	conf := &config.BackendConfig{
		Profile: "local",
		Profiles: map[string]config.ProfileConfig{
			"local": {
				BaseURL: fb.srv.URL,
				Endpoints: map[string]config.EndpointConfig{
					"update_product": {TrailingSlash: &trailing},
					"delete_product": {TrailingSlash: &trailing},
					"list_products":  {Public: &publicList},
				},
			},
		},
	}
	reg, err := endpoint.NewRegistry(conf)
	require.NoError(fb.t, err)

	return reg
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.NewClient(fb.srv.Client(), 2*time.Second)
}

var (
	validSession = domain.Session{Token: "tok-123"}
	noSession    = domain.Session{}
)
