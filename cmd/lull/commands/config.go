package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change the persisted settings",
	}

	cmd.AddCommand(c.newConfigShowCmd())
	cmd.AddCommand(c.newConfigSetRootCmd())

	return cmd
}

func (c *CLI) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, path, err := c.app.Settings()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "# %s\n", path)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			rows := [][2]string{
				{"root", orNone(settings.Root)},
				{"quiescence", settings.Quiescence.String()},
				{"include_deletes", fmt.Sprint(settings.IncludeDeletes)},
				{"rename_tracking", string(settings.RenameTracking)},
				{"ignore", orNone(strings.Join(settings.Ignore, ", "))},
				{"history", orNone(settings.HistoryPath)},
				{"hook", orNone(strings.Join(settings.Hook, " "))},
				{"health_socket", orNone(settings.HealthSocket)},
				{"log_json", fmt.Sprint(settings.LogJSON)},
				{"flush_on_exit", fmt.Sprint(settings.FlushOnExit)},
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
			}
			return tw.Flush()
		},
	}
}

func (c *CLI) newConfigSetRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-root <path>",
		Short: "Persist the directory to watch",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.app.SetRoot(args[0])
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
