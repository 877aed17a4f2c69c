// Package inspect serves a JSON view of a container over HTTP.
//
//	GET    /bindings          every binding and cached instance
//	POST   /bindings          {"name", "concrete", "singleton"}
//	GET    /bindings/{name}
//	PUT    /bindings/{name}   {"concrete", "singleton"}
//	DELETE /bindings/{name}
//	GET    /tags
//	GET    /resolve/{name}?k=v&0=v
//
// Query values on /resolve become string overrides: integer keys are
// positional, the rest named.
package inspect

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/http/validation"
	"github.com/km-arc/go-container/framework/routing"
)

// BindingView is one row of the binding listing.
type BindingView struct {
	Name      string `json:"name"`
	Strategy  string `json:"strategy"`
	Concrete  string `json:"concrete,omitempty"`
	Singleton bool   `json:"singleton"`
	Resolved  bool   `json:"resolved"`
}

// instanceStrategy labels names that only have a cached instance.
const instanceStrategy = "instance"

// Describe lists every binding and cached instance of c, sorted by name.
func Describe(c *container.Container) []BindingView {
	views := make(map[string]BindingView)
	for name, b := range c.Bindings() {
		views[name] = BindingView{
			Name:      name,
			Strategy:  b.Strategy.Kind.String(),
			Concrete:  b.Strategy.Concrete,
			Singleton: b.Singleton,
		}
	}
	for _, name := range c.Instances() {
		v, ok := views[name]
		if !ok {
			v = BindingView{Name: name, Strategy: instanceStrategy, Singleton: true}
		}
		v.Resolved = true
		views[name] = v
	}

	out := make([]BindingView, 0, len(views))
	for _, v := range views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Inspector handles the inspection routes for one container.
type Inspector struct {
	c      *container.Container
	logger *zap.Logger
	token  string
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger for access logs and server errors.
func WithLogger(l *zap.Logger) Option {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l.Named("inspect")
		}
	}
}

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(i *Inspector) { i.token = token }
}

// New creates an Inspector for c.
func New(c *container.Container, opts ...Option) *Inspector {
	i := &Inspector{c: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Handler returns a router serving the inspector for c.
func Handler(c *container.Container, opts ...Option) http.Handler {
	i := New(c, opts...)
	r := routing.New(i.logger)
	i.Routes(r)
	return r
}

// Routes registers the inspector on r.
func (i *Inspector) Routes(r *routing.Router) {
	r.Group(func(g *routing.Router) {
		if i.token != "" {
			g.Middleware(i.authenticate)
		}
		g.Resource("/bindings", "name", i)
		g.Get("/tags", i.Tags)
		g.Get("/resolve/{name}", i.Resolve)
	})
}

func (i *Inspector) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := gohttp.NewRequest(r).BearerToken()
		if subtle.ConstantTimeCompare([]byte(got), []byte(i.token)) != 1 {
			gohttp.NewResponse(w).Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ── Bindings ─────────────────────────────────────────────────────────────────

type declaration struct {
	Name      string `json:"name"`
	Concrete  string `json:"concrete"`
	Singleton bool   `json:"singleton"`
}

var declarationRules = validation.Rules{
	"name":     "required|identifier|max:255",
	"concrete": "nullable|identifier|max:255",
}

// Index lists all bindings.
func (i *Inspector) Index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(Describe(i.c))
}

// Show returns one binding, or 404.
func (i *Inspector) Show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	if v, ok := i.find(gohttp.NewRequest(r).RouteParam("name")); ok {
		res.Success(v)
		return
	}
	res.NotFound("No binding found.")
}

// Store registers a new binding. Existing names are a 409; use PUT to
// rebind.
func (i *Inspector) Store(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	var d declaration
	if err := req.Bind(&d); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	if i.c.Has(d.Name) {
		res.Error(http.StatusConflict, fmt.Sprintf("Binding [%s] already exists.", d.Name))
		return
	}
	if !i.declare(res, d) {
		return
	}
	v, _ := i.find(d.Name)
	res.Created(v)
}

// Update rebinds an existing name.
func (i *Inspector) Update(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	name := req.RouteParam("name")
	if !i.c.Has(name) {
		res.NotFound("No binding found.")
		return
	}

	var d declaration
	if err := req.Bind(&d); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	d.Name = name
	if !i.declare(res, d) {
		return
	}
	v, _ := i.find(name)
	res.Success(v)
}

// Destroy unsets a binding and its cached instance.
func (i *Inspector) Destroy(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("name")
	i.c.Unset(name)
	i.logger.Info("binding removed", zap.String("name", name))
	gohttp.NewResponse(w).NoContent()
}

// declare validates d and binds it, writing the failure response when it
// cannot.
func (i *Inspector) declare(res *gohttp.Response, d declaration) bool {
	v := validation.Make(map[string]string{"name": d.Name, "concrete": d.Concrete}, declarationRules)
	if v.Fails() {
		res.ValidationError(v.Errors())
		return false
	}

	var concrete any
	if d.Concrete != "" {
		concrete = d.Concrete
	}
	bind := i.c.Bind
	if d.Singleton {
		bind = i.c.Singleton
	}
	if err := bind(d.Name, concrete); err != nil {
		res.ContainerError(err)
		return false
	}
	i.logger.Info("binding declared",
		zap.String("name", d.Name),
		zap.String("concrete", d.Concrete),
		zap.Bool("singleton", d.Singleton))
	return true
}

func (i *Inspector) find(name string) (BindingView, bool) {
	for _, v := range Describe(i.c) {
		if v.Name == name {
			return v, true
		}
	}
	return BindingView{}, false
}

// ── Tags ─────────────────────────────────────────────────────────────────────

// Tags lists every tag with its names.
func (i *Inspector) Tags(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(i.c.Tags())
}

// ── Resolve ──────────────────────────────────────────────────────────────────

// Resolution is the body of a successful /resolve call.
type Resolution struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Resolve resolves a name with the query string as overrides.
func (i *Inspector) Resolve(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	name := req.RouteParam("name")

	v, err := i.c.ResolveContext(r.Context(), name, Overrides(req.All()))
	if err != nil {
		if container.KindOf(err) != container.KindUnresolvableBinding {
			i.logger.Warn("resolution failed", zap.String("name", name), zap.Error(err))
		}
		res.ContainerError(err)
		return
	}
	res.Success(Resolution{Name: name, Type: fmt.Sprintf("%T", v), Value: fmt.Sprintf("%+v", v)})
}

// Overrides turns string input into resolution overrides. Integer keys
// are positional, the rest named. An empty input yields nil so cached
// singletons are used.
func Overrides(in map[string]string) container.Parameters {
	if len(in) == 0 {
		return nil
	}
	params := make(container.Parameters, len(in))
	for k, v := range in {
		if n, err := strconv.Atoi(k); err == nil {
			params[n] = v
			continue
		}
		params[k] = v
	}
	return params
}
