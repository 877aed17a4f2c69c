package cmd

import (
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
)

func newBindingsCommand(opts *rootOptions) *cobra.Command {
	var withTags bool

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "List every binding and cached instance",
		Long: `List every binding and cached instance after boot.

Examples:
  # All bindings
  go-container bindings

  # Include tags
  go-container bindings --tags

  # With a manifest
  go-container bindings --manifest bindings.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.boot()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderBindings(out, inspect.Describe(a.Container))
			if withTags {
				renderTags(out, a.Container)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTags, "tags", false, "also list tags")
	return cmd
}

func renderBindings(w io.Writer, views []inspect.BindingView) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Strategy", "Concrete", "Singleton", "Resolved"})
	for _, v := range views {
		t.AppendRow(table.Row{v.Name, v.Strategy, v.Concrete, yesNo(v.Singleton), yesNo(v.Resolved)})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(views)})
	t.Render()
}

func renderTags(w io.Writer, c *container.Container) {
	tags := c.Tags()
	names := make([]string, 0, len(tags))
	for tag := range tags {
		names = append(names, tag)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tag", "Names"})
	for _, tag := range names {
		t.AppendRow(table.Row{tag, strings.Join(tags[tag], ", ")})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
