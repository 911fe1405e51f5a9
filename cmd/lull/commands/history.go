package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/lull/internal/ui/style"
)

// historyTimeLayout is how settlement times are printed.
const historyTimeLayout = "2006-01-02 15:04:05"

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently settled sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			verbose, _ := cmd.Flags().GetBool("verbose")

			entries, err := c.app.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "no settled sessions recorded")
				return nil
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintf(out, "%s  %s  %016x  %d paths, %d renames\n",
					entry.SettledAt.Local().Format(historyTimeLayout),
					entry.SessionID,
					entry.Fingerprint,
					len(entry.Paths),
					len(entry.Renames),
				)
				if !verbose {
					continue
				}
				for _, path := range entry.Paths {
					_, _ = fmt.Fprintf(out, "    %s %s\n", style.Tilde, path)
				}
				renamed := make([]string, 0, len(entry.Renames))
				for path := range entry.Renames {
					renamed = append(renamed, path)
				}
				slices.Sort(renamed)
				for _, path := range renamed {
					_, _ = fmt.Fprintf(out, "    %s %s %s\n", entry.Renames[path], style.Arrow, path)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 for all)")
	cmd.Flags().BoolP("verbose", "v", false, "List the paths and renames of each session")
	return cmd
}
