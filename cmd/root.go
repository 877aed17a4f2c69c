package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/km-arc/go-container/app"
	framework "github.com/km-arc/go-container/framework/app"
)

const tracerName = "github.com/km-arc/go-container"

type rootOptions struct {
	envFiles []string
	manifest string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "go-container",
		Short: "Inspect and resolve bindings of the service container",
		Long: `go-container boots the demo application and its service container.

Bindings come from the registered service providers and, optionally, a
YAML manifest (--manifest or CONTAINER_MANIFEST).`,
		Version:       framework.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil,
		"dotenv files to load (default: .env)")
	root.PersistentFlags().StringVarP(&opts.manifest, "manifest", "m", "",
		"bindings manifest to apply at boot")

	root.AddCommand(
		newBindingsCommand(opts),
		newResolveCommand(opts),
		newTaggedCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// boot creates and boots the application with the demo services.
func (o *rootOptions) boot() (*framework.Application, error) {
	catalog, err := app.Catalog()
	if err != nil {
		return nil, err
	}

	a, err := framework.New(framework.Options{
		EnvFiles:     o.envFiles,
		Manifest:     o.manifest,
		Introspector: catalog,
		Tracer:       otel.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	if err := a.Register(&app.ServiceProvider{}); err != nil {
		return nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, err
	}
	return a, nil
}

// Main runs the command line and exits non-zero on failure.
func Main() {
	if err := Execute(); err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
