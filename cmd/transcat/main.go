// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Transcat maintains gettext translation catalogues.

Usage:

	transcat [-config file] <command> [flags] [args]

The commands are:

	extract [-version v] [roots...]  regenerate the template from source files
	sync [locales...]                merge the template into working catalogues and compile them
	compile [locales...]             compile working catalogues
	validate <locale>                check a working catalogue for fuzzy entries
	init <locale>                    create the working catalogue of a new locale
	resolve [-n count] <locale> <message> [plural]
	                                 look a message up in the compiled catalogue

sync and compile act on every locale with a working catalogue when none are
named. The exit status is 1 when a command fails or validation does not pass.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/transcat/transcat/config"
	"codeberg.org/transcat/transcat/core/audit"
)

var (
	errUsage          = errors.New("usage error")
	errValidation     = errors.New("validation failed")
	errUnknownCommand = errors.New("unknown command")
)

// command is a subcommand. run receives the arguments after the command name.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, app *app, args []string) error
}

var commands = []command{
	{"extract", "regenerate the template from source files", runExtract},
	{"sync", "merge the template into working catalogues and compile them", runSync},
	{"compile", "compile working catalogues", runCompile},
	{"validate", "check a working catalogue for fuzzy entries", runValidate},
	{"init", "create the working catalogue of a new locale", runInit},
	{"resolve", "look a message up in the compiled catalogue", runResolve},
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer

	// span collects what the command touched for the audit log.
	span *audit.Span
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run executes the command line args and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	audit.SetDefaultLogger()

	flags := flag.NewFlagSet("transcat", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFlag := flags.String("config", "", "path to the configuration file")
	flags.Usage = func() { usage(flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 1
	}

	if flags.NArg() == 0 {
		flags.Usage()

		return 1
	}

	name := flags.Arg(0)

	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "transcat: %v %q\n", errUnknownCommand, name)
		flags.Usage()

		return 1
	}

	cfg := &config.Global
	if err := cfg.LoadConfig(*configFlag); err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")

		return 1
	}

	span := audit.Span{Operation: cmd.name}
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr, span: &span}

	ctx = span.Begin(ctx)
	err := cmd.run(ctx, a, flags.Args()[1:])
	span.End()

	if err != nil && !reported(err) {
		span.Error = err
		fmt.Fprintf(stderr, "transcat %s: %v\n", cmd.name, err)
	}

	span.Log()

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		return 1
	}

	return 0
}

// reported reports whether err was already explained to the user.
func reported(err error) bool {
	return errors.Is(err, errValidation) || errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp)
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}

	return command{}, false
}

func usage(flags *flag.FlagSet) {
	w := flags.Output()

	fmt.Fprintln(w, "Usage: transcat [-config file] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	flags.PrintDefaults()
}
