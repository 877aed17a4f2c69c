// Package container provides a Laravel-style IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container maps names to build strategies and builds object graphs
// by resolving constructor parameters recursively. It mirrors the public
// API of Laravel's Illuminate\Container\Container as closely as Go's type
// system allows. Go has no runtime constructor reflection, so concrete
// types are described by an Introspector (see package reflector, which
// registers plain Go constructor functions).
//
// # Bindings
//
//	// Self binding: build "Bar" through the introspector
//	// Laravel: $app->bind(Bar::class)
//	c.Bind("Bar", nil)
//
//	// Alias: interface → implementation
//	// Laravel: $app->bind(FooInterface::class, Foo::class)
//	c.Bind("FooInterface", "Foo")
//
//	// Factory
//	// Laravel: $app->singleton('cache', fn($app) => new RedisCache)
//	c.Singleton("cache", func(c *container.Container) any { return &RedisCache{} })
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", cfg)
//
// # Resolving
//
//	// Laravel: $app->make(Qux::class, ['kennedy'])
//	qux, err := c.Resolve("Qux", container.Args("kennedy"))
//
//	// Laravel: $app->make(Plugh::class, ['number' => 20, 'first' => 'kennedy', 'last' => 'osaze'])
//	plugh, err := c.Resolve("Plugh", container.Parameters{"number": 20, "first": "kennedy", "last": "osaze"})
//
//	// Generic
//	mailer, err := container.Make[*SmtpMailer](c, "mailer")
//
// Overrides always bypass the singleton cache and are never cached.
// Parameters without an override are resolved from the container when
// they name a type, or take their declared default. A class parameter
// that cannot be resolved falls back to its default when it is optional.
//
// # Errors
//
// Every failure is a *Error. Compare kinds with errors.Is against the
// sentinels (ErrUnresolvableBinding, ErrTargetNotFound, ...) or use the
// IsNotFound / IsCircular / ... predicates. Recursive bindings (A aliases
// B aliases A, or a constructor that needs itself) fail with
// ErrCircularBinding and the full chain.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.Singleton("mailer", "app.SmtpMailer")
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(&AppServiceProvider{})
//	_ = registry.Boot()
package container
