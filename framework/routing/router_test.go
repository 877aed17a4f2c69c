package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-container/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New(nil)
	r.Get("/bindings", okHandler)
	r.Post("/bindings", okHandler)
	r.Put("/bindings/{name}", okHandler)
	r.Delete("/bindings/{name}", okHandler)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/bindings"},
		{http.MethodPost, "/bindings"},
		{http.MethodPut, "/bindings/mailer"},
		{http.MethodDelete, "/bindings/mailer"},
	} {
		assert.Equal(t, http.StatusOK, do(t, r, tt.method, tt.path).Code, tt.method+" "+tt.path)
	}
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodPatch, "/bindings").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/not-registered").Code)
}

func TestRouter_Param(t *testing.T) {
	r := routing.New(nil)
	r.Get("/resolve/{name}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "name")))
	})

	rr := do(t, r, http.MethodGet, "/resolve/app.Mailer")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "app.Mailer", rr.Body.String())
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New(nil)
	r.Prefix("/container", func(api *routing.Router) {
		api.Get("/bindings", okHandler)
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/container/bindings").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/bindings").Code)
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New(nil)
	r.Get("/open", okHandler)
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/open")
	assert.False(t, called, "group middleware must not leak to the parent")
	do(t, r, http.MethodGet, "/protected")
	assert.True(t, called)
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := routing.New(nil)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/boom").Code)
}

// ── Access log ───────────────────────────────────────────────────────────────

func TestRouter_AccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := routing.New(zap.New(core))
	r.Get("/bindings", okHandler)

	do(t, r, http.MethodGet, "/bindings")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "http", entries[0].LoggerName)
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/bindings", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

// ── Resource routes ───────────────────────────────────────────────────────────

type stubController struct{}

func (s *stubController) Index(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) }
func (s *stubController) Store(w http.ResponseWriter, r *http.Request) { w.WriteHeader(201) }
func (s *stubController) Show(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(routing.Param(r, "name")))
}
func (s *stubController) Update(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(200) }
func (s *stubController) Destroy(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) }

func TestRouter_Resource(t *testing.T) {
	r := routing.New(nil)
	r.Resource("/bindings", "name", &stubController{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/bindings", 200},
		{"POST", "/bindings", 201},
		{"GET", "/bindings/mailer", 200},
		{"PUT", "/bindings/mailer", 200},
		{"DELETE", "/bindings/mailer", 204},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, r, tt.method, tt.path).Code)
		})
	}

	assert.Equal(t, "mailer", do(t, r, "GET", "/bindings/mailer").Body.String())
}

func TestRouter_HandlerInterface(t *testing.T) {
	r := routing.New(nil)
	r.Get("/ping", okHandler)
	assert.Equal(t, http.StatusOK, do(t, r.Handler(), http.MethodGet, "/ping").Code)
}
