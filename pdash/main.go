// Command pdash is a live portfolio dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/dashboard/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// a missing .env is fine, the environment and flags still apply.
	_ = godotenv.Load()
	if err := cmd.SetDefaultsFromEnv(flag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	known := map[string]bool{"help": true, "flags": true, "commands": true}
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		known[c.Name()] = true
	}

	completion().Complete(name)

	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !known[sub] {
		if ok, code := cmd.RunExtension(sub, flag.Args()[1:]); ok {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		if c.Name() == "show" {
			sub.Flags["f"] = predict.Set{"term", "markdown", "raw", "json"}
		}
		root.Sub[c.Name()] = sub
	}
	for _, builtin := range []string{"help", "flags", "commands"} {
		root.Sub[builtin] = &complete.Command{}
	}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	if _, ok := flags["log-file"]; ok {
		flags["log-file"] = predict.Files("*")
	}
	return flags
}
