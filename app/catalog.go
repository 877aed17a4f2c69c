package app

import (
	"go.uber.org/multierr"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/reflector"
)

// Catalog registers the constructors of every demo service.
//
//	Logger, Mailer, Report           abstract
//	ZapLogger(log "logger")
//	SmtpMailer(host = "localhost", port = 25, logger Logger)
//	Newsletter(mailer Mailer, subject = "Weekly digest")
//	CpuReport(), MemoryReport()
func Catalog() (*reflector.Catalog, error) {
	cat := reflector.New()
	err := multierr.Combine(
		cat.Abstract("Logger", (*Logger)(nil)),
		cat.Abstract("Mailer", (*Mailer)(nil)),
		cat.Abstract("Report", (*Report)(nil)),

		cat.Register("ZapLogger", NewZapLogger,
			reflector.Arg("log").As("logger")),
		cat.Register("SmtpMailer", NewSmtpMailer,
			reflector.Arg("host").Default("localhost"),
			reflector.Arg("port").Default(25),
			reflector.Arg("logger")),
		cat.Register("Newsletter", NewNewsletter,
			reflector.Arg("mailer"),
			reflector.Arg("subject").Default("Weekly digest")),
		cat.Register("CpuReport", NewCpuReport),
		cat.Register("MemoryReport", NewMemoryReport),
	)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// ServiceProvider binds the demo contracts to their implementations.
//
// Laravel equivalent:
//
//	// app/Providers/AppServiceProvider.php
//	$this->app->singleton(Mailer::class, SmtpMailer::class);
type ServiceProvider struct {
	container.BaseProvider
}

func (p *ServiceProvider) Register(app *container.Container) error {
	err := multierr.Combine(
		app.Singleton("Logger", "ZapLogger"),
		app.Singleton("Mailer", "SmtpMailer"),
		app.Bind("newsletter", "Newsletter"),
	)
	app.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
	return err
}
