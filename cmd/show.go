package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	format string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "fetch the portfolio once and print it" }
func (*showCmd) Usage() string {
	return `pdash show [-f term|markdown|raw|json]

  Fetches the portfolio snapshot once and prints the dashboard.
  "raw" prints the snapshot as received, "json" the rendered view.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "term", "Output format: term, markdown, raw or json")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.format {
	case "term", "markdown", "raw", "json":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	s, err := NewFetcher().Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	v := renderer.NewView(s, RenderOptions())
	switch c.format {
	case "term":
		fmt.Fprintln(stdout, renderer.Terminal(v, renderer.DefaultStyles()))
	case "markdown":
		printMarkdown(renderer.Markdown(v))
	case "raw":
		err = dashboard.EncodeSnapshot(stdout, s)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
