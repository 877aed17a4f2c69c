package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/manifest"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration as "config".
// A preloaded Config is registered as an instance; otherwise it is loaded
// from EnvFiles on first use.
//
// Bound names:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config != nil {
		app.Instance("config", p.Config)
	} else {
		envFiles := p.EnvFiles
		if err := app.Singleton("config", func(*container.Container) any {
			return config.Load(envFiles...)
		}); err != nil {
			return err
		}
	}
	return app.Bind("configuration", "config")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger as "logger",
// either the given Logger or one built from config.Log.
//
// Laravel equivalent:
//
//	// Illuminate\Log\LogServiceProvider
//	$app->singleton('log', fn($app) => new LogManager($app));
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		app.Instance("logger", p.Logger)
		return nil
	}
	return app.Singleton("logger", func(c *container.Container, _ container.Parameters) (any, error) {
		cfg, err := container.Make[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log)
	})
}

// ── ManifestServiceProvider ───────────────────────────────────────────────────

// ManifestServiceProvider applies a bindings manifest at boot. Path
// defaults to config.Container.Manifest; no path means no manifest.
type ManifestServiceProvider struct {
	container.BaseProvider
	Path string
}

func (p *ManifestServiceProvider) Register(*container.Container) error { return nil }

func (p *ManifestServiceProvider) Boot(app *container.Container) error {
	path := p.Path
	if path == "" {
		cfg, err := container.Make[*config.Config](app, "config")
		if err != nil {
			return err
		}
		path = cfg.Container.Manifest
	}
	if path == "" {
		return nil
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	if err := m.Apply(app); err != nil {
		return err
	}

	if logger, err := container.Make[*zap.Logger](app, "logger"); err == nil {
		logger.Info("manifest applied",
			zap.String("path", path),
			zap.Int("bindings", len(m.Bindings)),
			zap.Int("instances", len(m.Instances)),
			zap.Int("tags", len(m.Tags)))
	}
	return nil
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider registers the HTTP router serving the binding
// inspector for this container.
//
// Bound names:
//   - "router" → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type InspectorServiceProvider struct {
	container.BaseProvider
}

func (p *InspectorServiceProvider) Register(app *container.Container) error {
	return app.Singleton("router", func(c *container.Container, _ container.Parameters) (any, error) {
		cfg, err := container.Make[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		logger, err := container.Make[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}

		r := routing.New(logger)
		inspect.New(app, inspect.WithLogger(logger), inspect.WithToken(cfg.Inspector.Token)).Routes(r)
		return r, nil
	})
}
