package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-container/framework/container"
)

func newResolveCommand(opts *rootOptions) *cobra.Command {
	var (
		positional []string
		named      []string
	)

	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "Resolve a name and print the value",
		Long: `Resolve a name from the booted container and print its type and value.

--arg values are positional overrides, --param key=value pairs named ones.
Overrides always build a fresh value.

Examples:
  go-container resolve newsletter
  go-container resolve Newsletter --param subject="Release notes"
  go-container resolve SmtpMailer --arg smtp.example.com --arg 2525`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			overrides, err := parseOverrides(positional, named)
			if err != nil {
				return err
			}
			a, err := opts.boot()
			if err != nil {
				return err
			}

			v, err := a.ResolveContext(cmd.Context(), names[0], overrides)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%T\n%+v\n", v, v)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&positional, "arg", nil, "positional override (repeatable)")
	cmd.Flags().StringArrayVarP(&named, "param", "p", nil, "named override key=value (repeatable)")
	return cmd
}

// parseOverrides merges positional and key=value overrides. nil means
// none, so singletons come from the cache.
func parseOverrides(args, params []string) (container.Parameters, error) {
	if len(args) == 0 && len(params) == 0 {
		return nil, nil
	}
	out := make(container.Parameters, len(args)+len(params))
	for i, v := range args {
		out[i] = v
	}
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid --param %q, want key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

func newTaggedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "tagged TAG",
		Short:   "Resolve every name under a tag",
		Example: "  go-container tagged reports",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, tags []string) error {
			a, err := opts.boot()
			if err != nil {
				return err
			}
			values, err := a.Tagged(tags[0])

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Type", "Value"})
			for i, v := range values {
				t.AppendRow(table.Row{i, fmt.Sprintf("%T", v), describe(v)})
			}
			t.Render()
			return err
		},
	}
}

// describe prints reports by their output and anything else with %+v.
func describe(v any) string {
	if g, ok := v.(interface{ Generate() string }); ok {
		return g.Generate()
	}
	return fmt.Sprintf("%+v", v)
}
