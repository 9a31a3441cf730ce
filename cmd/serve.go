package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/dashboard/poll"
	"github.com/etnz/dashboard/server"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr   string
	pretty bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the live dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `pdash serve [-addr :8080] [-pretty]

  Refreshes the portfolio every 15 seconds and serves the dashboard:
    /               HTML page, reloaded on each update
    /api/snapshot   last snapshot as JSON
    /api/view       rendered view as JSON
    /ws             websocket notified on each update
    /health         health check
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "Listen address")
	f.BoolVar(&c.pretty, "pretty", false, "Human readable logs instead of JSON")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := NewLogger(os.Stderr, c.pretty)

	p := poll.New(NewFetcher(), poll.Options{Policy: Policy(), Log: log})
	srv := server.New(server.Config{Log: log, Addr: c.addr, Source: p, Render: RenderOptions()})

	if err := p.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting poller: %v\n", err)
		return subcommands.ExitFailure
	}
	defer p.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", c.addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		p.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
