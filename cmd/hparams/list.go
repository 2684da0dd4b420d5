package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/hparams/hparams"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available algorithms and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, hparams.DefaultRegistry())
		},
	}
}

func runList(cmd *cobra.Command, registry *hparams.Registry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	for i, entry := range registry.Entries() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(entry.Aliases) > 0 {
			fmt.Fprintf(w, "%s (aliases: %s)\n", entry.Name, strings.Join(entry.Aliases, ", "))
		} else {
			fmt.Fprintf(w, "%s\n", entry.Name)
		}
		for _, p := range entry.Params {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", p.Name, p.Kind, defaultText(p), p.Doc)
		}
	}
	return w.Flush()
}

func defaultText(p hparams.ParamSpec) string {
	switch {
	case p.Required:
		return "required"
	case p.Default == nil:
		return "-"
	default:
		return fmt.Sprintf("default=%v", p.Default)
	}
}
