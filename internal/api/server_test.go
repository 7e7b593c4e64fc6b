package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/merchant-admin/internal/config"
)

type backendCall struct {
	method string
	path   string
	auth   string
	body   string
}

type stubBackend struct {
	srv   *httptest.Server
	mu    sync.Mutex
	calls []backendCall
	reply map[string]func(w http.ResponseWriter)
}

func newStubBackend(t *testing.T) *stubBackend {
	t.Helper()
	b := &stubBackend{reply: make(map[string]func(w http.ResponseWriter))}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, backendCall{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(raw)})
		fn, ok := b.reply[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		fn(w)
	}))
	t.Cleanup(b.srv.Close)

	return b
}

func (b *stubBackend) on(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reply[method+" "+path] = func(w http.ResponseWriter) {
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (b *stubBackend) Calls() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]backendCall(nil), b.calls...)
}

func testConfig(baseURL string) *config.AppConfig {
	trailing := true
	return &config.AppConfig{
		API: &config.APIConfig{
			Environment: config.EnvLocal,
			Port:        "0",
			Session: config.SessionConfig{
				CookieName: "access_token",
				MaxAge:     time.Hour,
			},
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
		Backend: &config.BackendConfig{
			Profile:        "local",
			RequestTimeout: 2 * time.Second,
			StoreID:        3,
			Profiles: map[string]config.ProfileConfig{
				"local": {
					BaseURL: baseURL,
					Endpoints: map[string]config.EndpointConfig{
						"update_product": {TrailingSlash: &trailing},
						"delete_product": {TrailingSlash: &trailing},
					},
				},
			},
		},
	}
}

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	s, err := NewServer(testConfig(backendURL), nil)
	require.NoError(t, err)

	return s
}

// newTestServerWithDB mounts the employee routes on a handle that never
// dials, so only the routing is exercised.
func newTestServerWithDB(t *testing.T, backendURL string) *Server {
	t.Helper()
	lazy, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	s, err := NewServer(testConfig(backendURL), lazy)
	require.NoError(t, err)

	return s
}

func serve(s *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	return rec
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "access_token", Value: token}
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func TestServer_LoginThenListProducts(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodPost, "/auth/login_admin", http.StatusOK, `{"access_token":"tok-1","token_type":"bearer"}`)
	b.on(http.MethodGet, "/products", http.StatusOK, `[{"id":1,"name":"Widget"}]`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@shop.test","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"access_token":"tok-1","token_type":"bearer"}}`, rec.Body.String())

	cookie := cookieNamed(rec, "access_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "tok-1", cookie.Value)
	assert.False(t, cookie.HttpOnly)

	rec = serve(s, http.MethodGet, "/api/v1/products", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"id":1,"name":"Widget"}]}`, rec.Body.String())

	calls := b.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Bearer tok-1", calls[1].auth)
}

func TestServer_InvalidLoginLeavesSessionUnset(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodPost, "/auth/login_admin", http.StatusUnauthorized, `{"detail":"Incorrect email or password"}`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@shop.test","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect email or password", decodeErr(t, rec)["error"])
	assert.Nil(t, cookieNamed(rec, "access_token"))

	rec = serve(s, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: Missing credentials", decodeErr(t, rec)["error"])
	assert.Len(t, b.Calls(), 1)
}

func TestServer_LoginRejectsMalformedBody(t *testing.T) {
	b := newStubBackend(t)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, b.Calls())
}

func TestServer_LoginWithoutTokenIsInternal(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodPost, "/auth/login_admin", http.StatusOK, `{"token_type":"bearer"}`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@shop.test","password":"secret"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred.", decodeErr(t, rec)["error"])
	assert.Nil(t, cookieNamed(rec, "access_token"))
}

func TestServer_Logout(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")

	rec := serve(s, http.MethodPost, "/api/v1/auth/logout", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookie := cookieNamed(rec, "access_token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestServer_UpdateProduct(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodPatch, "/products/42/", http.StatusOK, `{"id":42,"name":"Widget"}`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPatch, "/api/v1/products", `{"id":"42","name":"Widget","store_id":9}`, sessionCookie("tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"id":42,"name":"Widget"}}`, rec.Body.String())

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPatch, calls[0].method)
	assert.Equal(t, "/products/42/", calls[0].path)
	assert.JSONEq(t, `{"name":"Widget"}`, calls[0].body)
}

func TestServer_AddProductValidation(t *testing.T) {
	b := newStubBackend(t)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPost, "/api/v1/products",
		`{"name":"Widget","purchase_price":1,"max_sell_price":2,"quantity":"abc","category":"Food","date":"2024-05-01"}`,
		sessionCookie("tok-1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeErr(t, rec)
	assert.Contains(t, body["error"], "quantity")
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "quantity")
	assert.Empty(t, b.Calls())
}

func TestServer_AddProductRejectsNonObject(t *testing.T) {
	b := newStubBackend(t)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodPost, "/api/v1/products", `[1,2]`, sessionCookie("tok-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, b.Calls())
}

func TestServer_SessionCheckedBeforeBody(t *testing.T) {
	b := newStubBackend(t)
	s := newTestServerWithDB(t, b.srv.URL)

	for _, tt := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/products", `not json`},
		{http.MethodPatch, "/api/v1/products", `[1]`},
		{http.MethodPost, "/api/v1/sold", `{`},
		{http.MethodGet, "/api/v1/sold?from=not-a-date", ""},
		{http.MethodGet, "/api/v1/sold/export?to=not-a-date", ""},
		{http.MethodPost, "/api/v1/employees", `{"first_name":1}`},
	} {
		rec := serve(s, tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tt.path)
		assert.Equal(t, "Unauthorized: Missing credentials", decodeErr(t, rec)["error"], tt.path)
	}
	assert.Empty(t, b.Calls())
}

func TestServer_DeleteProduct(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodDelete, "/products/7/", http.StatusNoContent, "")
	b.on(http.MethodDelete, "/products/9/", http.StatusNotFound, `{"detail":"not found"}`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodDelete, "/api/v1/products/7", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(s, http.MethodDelete, "/api/v1/products/9", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found","details":{"detail":"not found"}}`, rec.Body.String())
}

func TestServer_BackendUnavailable(t *testing.T) {
	b := newStubBackend(t)
	url := b.srv.URL
	b.srv.Close()
	s := newTestServer(t, url)

	rec := serve(s, http.MethodGet, "/api/v1/products", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotEmpty(t, decodeErr(t, rec)["error"])
}

func TestServer_SoldItems(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodGet, "/sold", http.StatusOK,
		`[{"id":1,"name":"A","quantity":1,"price":2,"date":"2024-05-01"},{"id":2,"name":"B","quantity":1,"price":2,"date":"2024-06-01"}]`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodGet, "/api/v1/sold?from=2024-05-01&to=2024-05-31", "", sessionCookie("tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "A", body.Data[0]["name"])

	rec = serve(s, http.MethodGet, "/api/v1/sold?from=2024-06-01&to=2024-05-01", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, http.MethodGet, "/api/v1/sold/export", "", sessionCookie("tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sold_items.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestServer_ExportProducts(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodGet, "/products", http.StatusOK, `[{"id":1,"name":"Widget","quantity":2}]`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodGet, "/api/v1/products/export", "", sessionCookie("tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Widget")

	rec = serve(s, http.MethodGet, "/api/v1/products/export", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_Dashboard(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodGet, "/products", http.StatusOK, `[{"id":1,"quantity":3,"category":"Food"}]`)
	b.on(http.MethodGet, "/sold", http.StatusOK, `[{"id":1,"quantity":2,"price":1.5,"date":"2024-05-01"}]`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodGet, "/api/v1/dashboard", "", sessionCookie("tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body.Data["total_products"])
	assert.Equal(t, float64(3), body.Data["total_sales_value"])
}

func TestServer_Pages(t *testing.T) {
	s := newTestServerWithDB(t, "http://127.0.0.1:1")

	rec := serve(s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "login-form")

	for _, path := range []string{"/dashboard", "/sold", "/users"} {
		rec = serve(s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)

		rec = serve(s, http.MethodGet, path, "", sessionCookie("tok-1"))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "/static/app.js", path)
		assert.Contains(t, rec.Body.String(), `href="/users"`, path)
	}

	rec = serve(s, http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Ops(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")

	rec := serve(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodGet, "/api/v1/products", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = serve(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "merchant_admin_backend_request_duration_seconds")

	rec = serve(s, http.MethodGet, "/api/v1/employees", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_WithoutDatabase(t *testing.T) {
	b := newStubBackend(t)
	b.on(http.MethodGet, "/products", http.StatusOK, `[]`)
	s := newTestServer(t, b.srv.URL)

	rec := serve(s, http.MethodGet, "/api/v1/products", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodGet, "/users", "", sessionCookie("tok-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, http.MethodPost, "/api/v1/employees", `{}`, sessionCookie("tok-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, http.MethodGet, "/dashboard", "", sessionCookie("tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `href="/users"`)
}

func TestNewServer_UnknownProfile(t *testing.T) {
	conf := testConfig("http://127.0.0.1:1")
	conf.Backend.Profile = "production"

	_, err := NewServer(conf, nil)
	assert.Error(t, err)
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}
