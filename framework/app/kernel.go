package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// Version of the framework.
const Version = "0.2.0"

const shutdownTimeout = 5 * time.Second

// Options configure New. Zero values load everything from the
// environment.
type Options struct {
	EnvFiles     []string
	Manifest     string // overrides CONTAINER_MANIFEST
	Introspector container.Introspector
	Logger       *zap.Logger // built from config.Log when nil
	Tracer       trace.Tracer
}

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly,
// like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Config
	logger *zap.Logger
}

// New creates the application and registers the framework providers.
func New(opts Options) (*Application, error) {
	cfg := config.Load(opts.EnvFiles...)
	if opts.Manifest != "" {
		cfg.Container.Manifest = opts.Manifest
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Log); err != nil {
			return nil, err
		}
	}

	copts := []container.Option{container.WithLogger(logger)}
	if opts.Introspector != nil {
		copts = append(copts, container.WithIntrospector(opts.Introspector))
	}
	if opts.Tracer != nil {
		copts = append(copts, container.WithTracer(opts.Tracer))
	}
	c := container.New(copts...)

	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		config:    cfg,
		logger:    logger,
	}

	// Framework core providers, in boot order
	err := multierr.Combine(
		a.Register(&providers.ConfigServiceProvider{Config: cfg}),
		a.Register(&providers.LoggingServiceProvider{Logger: logger}),
		a.Register(&providers.ManifestServiceProvider{}),
		a.Register(&providers.InspectorServiceProvider{}),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.logger }

// Router resolves *routing.Router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.Make[*routing.Router](a.Container, "router")
}

// Serve boots the application (if needed) and serves the inspector on
// addr until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, addr string) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	a.logger.Info("inspector listening",
		zap.String("app", a.config.App.Name),
		zap.String("addr", addr),
		zap.String("env", a.config.App.Env))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if serveErr := <-errc; !errors.Is(serveErr, http.ErrServerClosed) {
		err = multierr.Append(err, serveErr)
	}
	a.logger.Info("inspector stopped")
	return err
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }
