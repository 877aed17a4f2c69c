package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the binding inspector over HTTP",
		Long: `Serve the binding inspector until interrupted.

The address defaults to INSPECTOR_ADDR; INSPECTOR_TOKEN, when set, is
required as a bearer token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.boot()
			if err != nil {
				return err
			}
			if !a.Config().Inspector.Enabled {
				cmd.PrintErrln("inspector disabled (INSPECTOR_ENABLED=false)")
				return nil
			}
			if addr == "" {
				addr = a.Config().Inspector.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: INSPECTOR_ADDR)")
	return cmd
}
