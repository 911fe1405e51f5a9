package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/lull/internal/app"
	"go.trai.ch/lull/internal/core/domain"
)

// rootPrompt is printed when the configured root cannot be watched.
const rootPrompt = "[Path] <- "

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the root and settle change sessions after a quiet period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _ := cmd.Flags().GetString("root")
			quiescence, _ := cmd.Flags().GetDuration("quiescence")
			includeDeletes, _ := cmd.Flags().GetBool("include-deletes")
			flushOnExit, _ := cmd.Flags().GetBool("flush-on-exit")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			noPrompt, _ := cmd.Flags().GetBool("no-prompt")

			err := c.app.Watch(cmd.Context(), app.WatchOptions{
				Root:           root,
				Quiescence:     quiescence,
				IncludeDeletes: includeDeletes,
				FlushOnExit:    flushOnExit,
				LogJSON:        logJSON,
			})
			if err == nil || noPrompt || !errors.Is(err, domain.ErrInvalidRootPath) {
				return err
			}
			return c.promptRoot(cmd, err)
		},
	}
	cmd.Flags().StringP("root", "r", "", "Directory to watch (overrides the settings file)")
	cmd.Flags().DurationP("quiescence", "q", 0, "Quiet period before a session settles (default from settings, 10s)")
	cmd.Flags().Bool("include-deletes", false, "Include deleted paths in settled change sets")
	cmd.Flags().Bool("flush-on-exit", false, "Settle a pending session on shutdown instead of dropping it")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")
	cmd.Flags().Bool("no-prompt", false, "Fail instead of asking for a replacement root")
	return cmd
}

// promptRoot asks for a replacement root, persists it and asks for a restart.
func (c *CLI) promptRoot(cmd *cobra.Command, cause error) error {
	out := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(out, "The root path can not be watched: %v\n", cause)
	_, _ = fmt.Fprintln(out, "Enter the directory to watch:")
	_, _ = fmt.Fprint(out, rootPrompt)

	// A read error still leaves whatever was typed before EOF in line.
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	path := strings.TrimSpace(line)
	if path == "" {
		return cause
	}

	if err := c.app.SetRoot(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Root saved. Restart lull to start watching.")
	return nil
}
