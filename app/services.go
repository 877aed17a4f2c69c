// Package app holds the demo services wired by the command line and the
// inspector: a logger, a mailer, a newsletter that needs both, and a few
// tagged reports.
package app

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ── Logging ──────────────────────────────────────────────────────────────────

// Logger is the logging contract services depend on.
type Logger interface {
	Log(msg string, fields ...zap.Field)
}

// ZapLogger adapts the application's *zap.Logger.
type ZapLogger struct {
	log *zap.Logger
}

func NewZapLogger(log *zap.Logger) *ZapLogger {
	return &ZapLogger{log: log.Named("app")}
}

func (l *ZapLogger) Log(msg string, fields ...zap.Field) { l.log.Info(msg, fields...) }

// ── Mail ─────────────────────────────────────────────────────────────────────

// Mailer sends messages.
type Mailer interface {
	Send(to, subject string) error
}

// SmtpMailer pretends to deliver over SMTP and logs each message.
type SmtpMailer struct {
	Host   string
	Port   int
	Logger Logger
	sent   int
}

func NewSmtpMailer(host string, port int, logger Logger) *SmtpMailer {
	return &SmtpMailer{Host: host, Port: port, Logger: logger}
}

func (m *SmtpMailer) Send(to, subject string) error {
	if to == "" {
		return errors.New("mailer: empty recipient")
	}
	m.sent++
	m.Logger.Log("mail sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("server", fmt.Sprintf("%s:%d", m.Host, m.Port)))
	return nil
}

// Sent returns the number of delivered messages.
func (m *SmtpMailer) Sent() int { return m.sent }

// Newsletter mails one subject to a list of recipients.
type Newsletter struct {
	Mailer  Mailer
	Subject string
}

func NewNewsletter(mailer Mailer, subject string) *Newsletter {
	return &Newsletter{Mailer: mailer, Subject: subject}
}

// Deliver sends the newsletter to every recipient, stopping at the first
// failure.
func (n *Newsletter) Deliver(recipients ...string) error {
	for _, to := range recipients {
		if err := n.Mailer.Send(to, n.Subject); err != nil {
			return errors.Wrapf(err, "newsletter to %s", to)
		}
	}
	return nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

// Report produces a one-line runtime summary.
type Report interface {
	Name() string
	Generate() string
}

type CpuReport struct{}

func NewCpuReport() *CpuReport { return &CpuReport{} }

func (*CpuReport) Name() string { return "cpu" }
func (*CpuReport) Generate() string {
	return fmt.Sprintf("cpus=%d goroutines=%d", runtime.NumCPU(), runtime.NumGoroutine())
}

type MemoryReport struct{}

func NewMemoryReport() *MemoryReport { return &MemoryReport{} }

func (*MemoryReport) Name() string { return "memory" }
func (*MemoryReport) Generate() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf("heap_alloc=%d num_gc=%d", ms.HeapAlloc, ms.NumGC)
}
