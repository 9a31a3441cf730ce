package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/etnz/dashboard/renderer"
	"github.com/etnz/dashboard/tui"
	"github.com/google/subcommands"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	logFile string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "live dashboard in the terminal, refreshed every 15s" }
func (*watchCmd) Usage() string {
	return `pdash watch [-log-file <file>]

  Displays the portfolio dashboard and refreshes it every 15 seconds.
  Press r to refresh now, q to quit.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.logFile, "log-file", "", "Append logs to this file, logs are discarded when empty")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// the terminal belongs to the dashboard: logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if c.logFile != "" {
		lf, err := os.OpenFile(c.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file %q: %v\n", c.logFile, err)
			return subcommands.ExitFailure
		}
		defer lf.Close()
		out = lf
	}
	log := NewLogger(out, false)

	m := tui.NewModel(ctx, NewFetcher(), tui.Options{
		Policy: Policy(),
		Render: RenderOptions(),
		Styles: renderer.DefaultStyles(),
		Log:    log,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
