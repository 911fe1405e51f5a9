// Package console renders watcher activity for the operator.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/lull/internal/ui/output"
	"go.trai.ch/lull/internal/ui/style"
)

var _ ports.Reporter = (*Reporter)(nil)

const timeLayout = "15:04:05"

// Reporter implements ports.Reporter with one line per event or settlement.
type Reporter struct {
	mu  sync.Mutex
	out *termenv.Output
}

// New creates a Reporter writing to w. A nil writer selects os.Stdout.
func New(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{out: output.New(w)}
}

// OnStartup prints the watched root and its initial tracked-file count.
func (r *Reporter) OnStartup(root string, tracked int) {
	r.println(style.Dusk, fmt.Sprintf("%s watching %s (%s tracked at startup)", style.Dot, root, plural(tracked, "entry", "entries")))
}

// OnEvent prints one normalized event.
func (r *Reporter) OnEvent(event domain.ChangeEvent) {
	icon, color := kindStyle(event.Kind)
	line := fmt.Sprintf("%s %s %-7s %s", event.At.Format(timeLayout), icon, event.Kind, event.Path)
	if event.Kind == domain.RenamedTo {
		line = fmt.Sprintf("%s %s %-7s %s %s %s", event.At.Format(timeLayout), icon, event.Kind, event.PreviousPath, style.Arrow, event.Path)
	}
	r.println(color, line)
}

// OnSettled prints the outcome of a settlement with the tracked counts before and after.
func (r *Reporter) OnSettled(report domain.SettlementReport) {
	changes := report.Changes
	summary := plural(len(changes.Paths), "change", "changes")
	if n := len(changes.RenameOrigins); n > 0 {
		summary += ", " + plural(n, "rename", "renames")
	}

	line := fmt.Sprintf("settled %s in %s (tracked %d %s %d)",
		summary,
		report.Duration.Round(time.Millisecond),
		report.TrackedBefore, style.Arrow, report.TrackedAfter,
	)

	var problems []string
	if report.ScoreErr != nil {
		problems = append(problems, "scoring failed")
	}
	if report.RescanErr != nil {
		problems = append(problems, "rescan failed, count kept")
	}

	if len(problems) > 0 {
		r.println(style.Red, style.Cross+" "+line+": "+strings.Join(problems, "; "))
		return
	}
	r.println(style.Green, style.Check+" "+line)
}

func (r *Reporter) println(color lipgloss.Color, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	styled := r.out.String(line).Foreground(termenv.RGBColor(string(color)))
	_, _ = r.out.WriteString(styled.String() + "\n")
}

func kindStyle(kind domain.ChangeKind) (string, lipgloss.Color) {
	switch kind {
	case domain.Created:
		return style.Plus, style.Green
	case domain.Deleted:
		return style.Minus, style.Red
	case domain.RenamedTo:
		return style.Arrow, style.Sky
	default:
		return style.Tilde, style.Yellow
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
