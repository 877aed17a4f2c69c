package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gohttp "github.com/km-arc/go-container/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newJSONRequest(t *testing.T, body string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return gohttp.NewRequest(req)
}

type declaration struct {
	Name      string `json:"name"`
	Concrete  string `json:"concrete"`
	Singleton bool   `json:"singleton"`
}

// ── Bind ─────────────────────────────────────────────────────────────────────

func TestRequest_Bind(t *testing.T) {
	req := newJSONRequest(t, `{"name":"mailer","concrete":"SmtpMailer","singleton":true}`)

	var d declaration
	require.NoError(t, req.Bind(&d))
	assert.Equal(t, declaration{Name: "mailer", Concrete: "SmtpMailer", Singleton: true}, d)
}

func TestRequest_Bind_Errors(t *testing.T) {
	tests := []struct {
		name, body, contentType string
	}{
		{"empty body", "", "application/json"},
		{"invalid json", "{bad json}", "application/json"},
		{"unknown field", `{"name":"x","extra":1}`, "application/json"},
		{"form body", "name=x", "application/x-www-form-urlencoded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			var d declaration
			assert.Error(t, gohttp.NewRequest(r).Bind(&d))
		})
	}
}

func TestRequest_Bind_NoContentTypeIsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))

	var d declaration
	require.NoError(t, gohttp.NewRequest(r).Bind(&d))
	assert.Equal(t, "x", d.Name)
}

// ── Input ────────────────────────────────────────────────────────────────────

func TestRequest_QueryAndAll(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?first=taylor&last=otwell&last=again", nil))

	assert.Equal(t, "taylor", req.Query("first"))
	assert.Equal(t, "fallback", req.Query("missing", "fallback"))
	assert.Equal(t, map[string]string{"first": "taylor", "last": "otwell"}, req.All())
}

func TestRequest_RouteParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/bindings/mailer", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", "mailer")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	assert.Equal(t, "mailer", gohttp.NewRequest(r).RouteParam("name"))
}

func TestRequest_Headers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer s3cret")
	r.Header.Set("X-Request-Id", "abc")
	req := gohttp.NewRequest(r)

	assert.Equal(t, "s3cret", req.BearerToken())
	assert.Equal(t, "abc", req.Header("X-Request-Id"))
	assert.Same(t, r, req.Raw())

	r.Header.Set("Authorization", "Basic xyz")
	assert.Empty(t, req.BearerToken())
}
