// Package cmd implements the pdash command line application: a portfolio
// dashboard refreshed from the aggregation service.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/logger"
	"github.com/etnz/dashboard/poll"
	"github.com/etnz/dashboard/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands is the list of subcommands registered by the main package.
var Commands = []subcommands.Command{
	&showCmd{},
	&watchCmd{},
	&serveCmd{},
	&topicCmd{},
}

const (
	EnvURL          = "PDASH_URL"
	EnvSelect       = "PDASH_SELECT"
	EnvCurrency     = "PDASH_CURRENCY"
	EnvLogLevel     = "PDASH_LOG_LEVEL"
	EnvLastResolved = "PDASH_LAST_RESOLVED"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioURL = flag.String("url", dashboard.DefaultURL, "URL of the portfolio snapshot")
var selectPath = flag.String("select", "", "JSONPath of the snapshot inside the response body, the whole body when empty")
var currency = flag.String("currency", "INR", "Currency of the amounts, used for the symbol")
var logLevel = flag.String("log-level", "info", "Log level: debug, info, warn or error")
var lastResolved = flag.Bool("compat-last-resolved", false, "Apply every result in the order it resolves, even when an older request resolves last")

// envFlags maps the global flags to the environment variable overriding their default.
var envFlags = map[string]string{
	"url":                  EnvURL,
	"select":               EnvSelect,
	"currency":             EnvCurrency,
	"log-level":            EnvLogLevel,
	"compat-last-resolved": EnvLastResolved,
}

// stdout is where commands print their output.
var stdout io.Writer = os.Stdout

// SetDefaultsFromEnv sets the global flags of fs from their environment variable, when set.
// It must run before fs is parsed so that the command line still takes precedence.
func SetDefaultsFromEnv(fs *flag.FlagSet) error {
	for name, key := range envFlags {
		v := os.Getenv(key)
		if v == "" || fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
	}
	return nil
}

// NewFetcher returns the fetcher configured by the global flags.
func NewFetcher() *dashboard.HTTPFetcher {
	f := dashboard.NewHTTPFetcher(*portfolioURL)
	f.Select = *selectPath
	return f
}

// NewLogger returns a logger writing to out at the configured level.
func NewLogger(out io.Writer, pretty bool) zerolog.Logger {
	return logger.New(logger.Config{Level: *logLevel, Pretty: pretty, Out: out})
}

// Policy returns the configured result policy.
func Policy() poll.Policy {
	if *lastResolved {
		return poll.LastResolved
	}
	return poll.LatestIssued
}

// RenderOptions returns the display options for the configured currency.
func RenderOptions() renderer.Options {
	opts := renderer.DefaultOptions()
	opts.Currency = dashboard.NewCurrency(*currency)
	return opts
}

// printMarkdown renders md for the terminal, or prints it raw if that fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
