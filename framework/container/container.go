package container

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const spanResolve = "container.resolve"

// registry is the state shared by a Container and every resolution view
// derived from it.
type registry struct {
	mu sync.RWMutex

	// name → binding
	bindings map[string]*Binding

	// name → resolved singleton instance
	instances map[string]any

	// tag → []name
	tags map[string][]string

	// resolved callbacks: []func(name, instance)
	afterResolving []func(string, any)

	introspector Introspector
	logger       *zap.Logger
	tracer       trace.Tracer
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container, modelled on Laravel's
// Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance
//   - Resolve / Build with positional or named parameter overrides
//   - Auto-wiring of concrete types reported by an Introspector
//   - Tags (group multiple names under one tag)
//   - Resolved event callbacks
//
// The *Container handed to factories is a view of the same registry that
// also carries the chain of names under construction, so recursive
// bindings are reported as ErrCircularBinding instead of overflowing the
// stack. The chain only applies while that resolution runs; a view kept
// by the value it built behaves like the root container afterwards.
type Container struct {
	*registry

	ctx   context.Context
	chain []string
	done  atomic.Bool
}

// New creates an empty container.
func New(opts ...Option) *Container {
	r := &registry{
		bindings:     make(map[string]*Binding),
		instances:    make(map[string]any),
		tags:         make(map[string][]string),
		introspector: noIntrospector{},
		logger:       zap.NewNop(),
		tracer:       noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return &Container{registry: r, ctx: context.Background()}
}

// enter returns a view with name pushed onto chain.
func (c *Container) enter(ctx context.Context, chain []string, name string) *Container {
	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	return &Container{registry: c.registry, ctx: ctx, chain: append(next, name)}
}

// scope returns the context and chain of the resolution c belongs to, or
// a fresh scope once that resolution has returned.
func (c *Container) scope() (context.Context, []string) {
	if c.done.Load() {
		return context.Background(), nil
	}
	return c.ctx, c.chain
}

// Context returns the context of the resolution this view belongs to.
func (c *Container) Context() context.Context {
	ctx, _ := c.scope()
	return ctx
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient binding: every Resolve builds a new value.
//
// concrete may be nil (build name itself), a string (name itself, or
// another name to alias), or a factory. Any other value fails with
// ErrInvalidBindingType.
//
//	// Laravel: $app->bind(FooInterface::class, Foo::class)
//	c.Bind("FooInterface", "Foo")
//
//	// Laravel: $app->bind('greeter', fn($app, $params) => $params)
//	c.Bind("greeter", func(c *container.Container, p container.Parameters) (any, error) {
//	    return p, nil
//	})
func (c *Container) Bind(name string, concrete any) error {
	return c.bind(name, concrete, false)
}

// Singleton registers a binding whose result is cached after the first
// resolution without overrides.
//
//	// Laravel: $app->singleton(Cache::class, RedisCache::class)
//	c.Singleton("cache", "RedisCache")
func (c *Container) Singleton(name string, concrete any) error {
	return c.bind(name, concrete, true)
}

func (c *Container) bind(name string, concrete any, singleton bool) error {
	strategy, err := strategyFor(name, concrete)
	if err != nil {
		return err
	}

	c.mu.Lock()
	// Drop any cached instance so the next Resolve uses the new strategy
	delete(c.instances, name)
	c.bindings[name] = &Binding{Name: name, Strategy: strategy, Singleton: singleton}
	c.mu.Unlock()

	c.logger.Debug("bound",
		zap.String("name", name),
		zap.Stringer("strategy", strategy.Kind),
		zap.String("concrete", strategy.Concrete),
		zap.Bool("singleton", singleton),
	)
	return nil
}

// Instance registers a pre-built value as a singleton.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", cfg)
func (c *Container) Instance(name string, instance any) {
	c.mu.Lock()
	c.instances[name] = instance
	c.mu.Unlock()

	c.logger.Debug("instance registered", zap.String("name", name), zap.String("type", fmt.Sprintf("%T", instance)))
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple names under a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
func (c *Container) Tag(names []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], names...)
}

// Tagged resolves every name registered under tag. Values that resolved
// are returned alongside the combined error of those that did not.
//
//	// Laravel: $app->tagged('reports')
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	names := slices.Clone(c.tags[tag])
	c.mu.RUnlock()

	var errs error
	result := make([]any, 0, len(names))
	for _, name := range names {
		instance, err := c.Resolve(name, nil)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		result = append(result, instance)
	}
	return result, errs
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name without overrides.
//
//	// Laravel: $app->get(Bar::class)
func (c *Container) Get(name string) (any, error) {
	return c.Resolve(name, nil)
}

// Resolve builds or returns the value bound to name.
//
// A cached singleton is returned only when params is empty; overrides
// always produce a fresh value that is never cached. Names without a
// binding are built as concrete types through the Introspector.
//
//	// Laravel: $app->make(Plugh::class, ['kennedy', 'osaze', 20])
//	plugh, err := c.Resolve("Plugh", container.Args("kennedy", "osaze", 20))
func (c *Container) Resolve(name string, params Parameters) (any, error) {
	return c.resolve(c.Context(), name, params)
}

// ResolveContext is Resolve with a caller context for tracing.
func (c *Container) ResolveContext(ctx context.Context, name string, params Parameters) (any, error) {
	return c.resolve(ctx, name, params)
}

func (c *Container) resolve(ctx context.Context, name string, params Parameters) (instance any, err error) {
	ctx, span := c.tracer.Start(ctx, spanResolve,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("container.name", name)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	if len(params) == 0 {
		c.mu.RLock()
		cached, ok := c.instances[name]
		c.mu.RUnlock()
		if ok {
			span.SetAttributes(attribute.Bool("container.cached", true))
			return cached, nil
		}
	}

	_, chain := c.scope()
	if slices.Contains(chain, name) {
		return nil, errCircularBinding(append(slices.Clone(chain), name))
	}

	c.mu.RLock()
	b, bound := c.bindings[name]
	c.mu.RUnlock()

	strategy := Strategy{Kind: SelfReference, Concrete: name}
	if bound {
		strategy = b.Strategy
	}
	span.SetAttributes(attribute.String("container.strategy", strategy.Kind.String()))

	view := c.enter(ctx, chain, name)
	instance, err = view.run(name, strategy, params, bound)
	view.done.Store(true)
	if err != nil {
		c.logger.Debug("resolution failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	if len(params) == 0 && c.IsSingleton(name) {
		c.mu.Lock()
		c.instances[name] = instance
		c.mu.Unlock()
	}

	c.logger.Debug("resolved",
		zap.String("name", name),
		zap.Stringer("strategy", strategy.Kind),
		zap.Int("overrides", len(params)),
	)
	c.fireAfterResolving(name, instance)
	return instance, nil
}

// run executes strategy for name on the view c.
func (c *Container) run(name string, s Strategy, params Parameters, bound bool) (any, error) {
	switch s.Kind {
	case FactoryFunc:
		return s.Factory(c, params)

	case AliasTo:
		instance, err := c.resolve(c.ctx, s.Concrete, params)
		if err != nil && missing(err, s.Concrete) {
			return nil, errUnresolvableBinding(name, err)
		}
		return instance, err

	case SelfReference:
		// Never route back through resolve: a self binding builds directly.
		instance, err := c.build(s.Concrete, params)
		if err != nil && !bound && isKind(err, KindTargetNotFound) && missing(err, s.Concrete) {
			return nil, errUnresolvableBinding(name, err)
		}
		return instance, err
	}
	return nil, errUnresolvableBinding(name, nil)
}

// missing reports whether err says that name itself could not be found
// or built, as opposed to one of its dependencies.
func missing(err error, name string) bool {
	var e *Error
	if !errors.As(err, &e) || e.Name != name {
		return false
	}
	switch e.Kind {
	case KindUnresolvableBinding, KindTargetNotFound, KindTargetNotInstantiable:
		return true
	}
	return false
}

// Build constructs concrete without consulting bindings or the instance
// cache. concrete is a type identifier or a factory.
//
//	bar, err := c.Build("Bar", nil)
func (c *Container) Build(concrete any, params Parameters) (any, error) {
	if name, ok := concrete.(string); ok {
		return c.build(name, params)
	}
	if concrete != nil {
		if s, err := strategyFor("", concrete); err == nil && s.Kind == FactoryFunc {
			return s.Factory(c, params)
		}
	}
	return nil, errInvalidBindingType(fmt.Sprintf("%T", concrete), concrete)
}

func (c *Container) build(concrete string, params Parameters) (any, error) {
	ctor, err := c.introspector.Inspect(concrete)
	if err != nil {
		return nil, err
	}

	var args []any
	if len(ctor.Params) > 0 {
		args, err = newDependencyResolver(c, ctor, params).dependencies()
		if err != nil {
			return nil, err
		}
	}

	instance, err := ctor.New(args)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, ErrConstruction(concrete, err)
	}
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether name has a binding or a cached instance.
//
//	// Laravel: $app->has(Bar::class)
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasBinding := c.bindings[name]
	_, hasInstance := c.instances[name]
	return hasBinding || hasInstance
}

// IsSingleton reports whether name is cached or bound as a singleton.
func (c *Container) IsSingleton(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.instances[name]; ok {
		return true
	}
	b, ok := c.bindings[name]
	return ok && b.Singleton
}

// Resolved returns true if name has a cached instance.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[name]
	return ok
}

// Bindings returns a copy of all registered bindings.
func (c *Container) Bindings() map[string]Binding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Binding, len(c.bindings))
	for k, b := range c.bindings {
		out[k] = *b
	}
	return out
}

// Instances returns the names of all cached instances, sorted.
func (c *Container) Instances() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.instances))
	for name := range c.instances {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tags returns a copy of the tag → names index.
func (c *Container) Tags() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]string, len(c.tags))
	for tag, names := range c.tags {
		out[tag] = slices.Clone(names)
	}
	return out
}

// Forget removes the binding and the cached instance for name.
//
//	// Laravel: unset($app[Cache::class])
func (c *Container) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, name)
	delete(c.instances, name)
}

// Flush resets the container to its initial empty state.
func (c *Container) Flush() {
	c.mu.Lock()
	c.bindings = make(map[string]*Binding)
	c.instances = make(map[string]any)
	c.tags = make(map[string][]string)
	c.mu.Unlock()

	c.logger.Debug("flushed")
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after any name is resolved.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(name string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(name string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.afterResolving)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(name, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// name when working with interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
//	c.Singleton(key, "main.PostgresUserRepository")
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Make resolves name and type-asserts the result.
//
//	// Instead of: v, err := c.Resolve("mailer", nil); m := v.(*SmtpMailer)
//	// Write:      m, err := container.Make[*SmtpMailer](c, "mailer")
func Make[T any](c *Container, name string, params ...Parameters) (T, error) {
	var zero T
	var p Parameters
	if len(params) > 0 {
		p = params[0]
	}
	instance, err := c.Resolve(name, p)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, newError(KindConstructionFailed, name,
			fmt.Sprintf("Make[%s]: [%s] resolved to %T", reflect.TypeOf((*T)(nil)).Elem(), name, instance), nil)
	}
	return typed, nil
}

// MustMake is like Make but panics on error.
func MustMake[T any](c *Container, name string, params ...Parameters) T {
	v, err := Make[T](c, name, params...)
	if err != nil {
		panic(err)
	}
	return v
}
