// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"codeberg.org/transcat/transcat/i18n"
	"codeberg.org/transcat/transcat/pipeline"
)

func (a *app) workspace() *pipeline.Workspace {
	w := pipeline.FromConfig(a.cfg)
	w.Out = a.stdout
	w.Diagnostics = a.stderr

	return w
}

func (a *app) flagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: transcat %s %s\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}

// recordFile notes the file a command wrote on its span.
func (a *app) recordFile(path string) {
	a.span.Path = path

	if fi, err := os.Stat(path); err == nil {
		a.span.Size = int(fi.Size())
	}
}

// recordResults notes the locales a batch command visited on its span.
func (a *app) recordResults(results []pipeline.Result) {
	for _, r := range results {
		a.span.Locales = append(a.span.Locales, r.Locale)
	}
}

// parse parses args with fs and reports failures as usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return fmt.Errorf("%w: %w", errUsage, err)
	}

	return nil
}

func runExtract(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("extract", "[-version v | -git-version] [roots...]")
	version := fs.String("version", a.cfg.Catalog.Version, "project version for the template header")
	gitVersion := fs.Bool("git-version", false, "take the project version from git describe")

	if err := parse(fs, args); err != nil {
		return err
	}

	roots := fs.Args()
	if len(roots) == 0 {
		roots = a.cfg.Extract.SourceRoots
	}

	w := a.workspace()

	w.Version = *version
	if *gitVersion {
		w.Version = detectVersion()
	}

	if _, err := w.Extract(ctx, roots); err != nil {
		return err
	}

	a.recordFile(w.TemplatePath())

	return nil
}

func runSync(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("sync", "[locales...]")
	if err := parse(fs, args); err != nil {
		return err
	}

	results, err := a.workspace().Sync(ctx, fs.Args()...)
	a.recordResults(results)

	return err
}

func runCompile(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("compile", "[locales...]")
	if err := parse(fs, args); err != nil {
		return err
	}

	results, err := a.workspace().Compile(ctx, fs.Args()...)
	a.recordResults(results)

	return err
}

func runValidate(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("validate", "<locale>")
	if err := parse(fs, args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(a.stdout, "Must include locale code when executing validate.")

		return errUsage
	}

	locale := fs.Arg(0)
	a.span.Locales = []string{locale}

	ok, diags, err := a.workspace().Validate(locale)

	switch {
	case errors.Is(err, pipeline.ErrNotExist):
		fmt.Fprintf(a.stdout, "Portable object file for locale %q does not exist.\n", locale)

		return errValidation
	case err != nil:
		return err
	case !ok:
		fmt.Fprintln(a.stdout, "Validation failed...")
		fmt.Fprintln(a.stdout, "Please correct the following errors before proceeding:")

		for _, d := range diags {
			fmt.Fprintln(a.stdout, d)
		}

		return errValidation
	}

	fmt.Fprintf(a.stdout, "Translations for locale %q are valid!\n", locale)

	return nil
}

func runInit(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("init", "<locale>")
	if err := parse(fs, args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errUsage
	}

	a.span.Locales = []string{fs.Arg(0)}

	path, err := a.workspace().Seed(fs.Arg(0))
	if err != nil {
		return err
	}

	a.recordFile(path)

	return nil
}

func runResolve(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("resolve", "[-n count] <locale> <message> [plural]")
	n := fs.Int("n", 1, "count used to pick the plural form")

	if err := parse(fs, args); err != nil {
		return err
	}

	if fs.NArg() < 2 || fs.NArg() > 3 {
		fs.Usage()

		return errUsage
	}

	r, err := i18n.Setup(a.cfg)
	if err != nil {
		return err
	}

	locale, message := fs.Arg(0), fs.Arg(1)
	a.span.Locales = []string{locale}

	if fs.NArg() == 3 {
		fmt.Fprintln(a.stdout, r.ResolvePlural(locale, message, fs.Arg(2), *n))
	} else {
		fmt.Fprintln(a.stdout, r.Resolve(locale, message))
	}

	return nil
}

// detectVersion resolves a human-friendly version string using git describe.
// Falls back to "dev" when git is unavailable or this is not a git checkout.
func detectVersion() string {
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")

	out, err := cmd.Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}
