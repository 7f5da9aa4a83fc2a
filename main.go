// Package main implements the diffhouse CLI tool for mining commits, file
// modifications, hunk-level diffs, and refs out of a Git repository.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/diffhouse/diffhouse/cmd"
	"github.com/diffhouse/diffhouse/internal/cliout"
	"github.com/diffhouse/diffhouse/internal/config"
	"github.com/diffhouse/diffhouse/internal/tui"
	"github.com/diffhouse/diffhouse/internal/version"
	"github.com/diffhouse/gitmine"
)

// runFlags collects every flag diffhouse's subcommands recognize, parsed
// once up front so each command handler only reads the fields it cares
// about.
type runFlags struct {
	cliout.Flags
	Shallow   bool
	Shortstat bool
	Verbose   bool
}

// parseFlags extracts recognized flags from args, returning the flags and
// the remaining positional arguments (in order).
func parseFlags(args []string) (runFlags, []string) {
	var flags runFlags
	var remaining []string

	for _, arg := range args {
		switch arg {
		case "--yes", "-y":
			flags.Yes = true
		case "--quiet", "-q":
			flags.Mode = cliout.ModeQuiet
		case "--json":
			flags.Mode = cliout.ModeJSON
		case "--shallow":
			flags.Shallow = true
		case "--shortstat":
			flags.Shortstat = true
		case "--verbose", "-v":
			flags.Verbose = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return flags, remaining
}

// mergeConfig layers .diffhouse.yml (if present) under the parsed flags:
// flags always win, the config file only fills in what wasn't passed on
// the command line.
func mergeConfig(flags runFlags) gitmine.Config {
	cfg, _ := config.Load(".") // a missing or unreadable file yields the zero value
	return gitmine.Config{
		Blobs:   !flags.Shallow && !cfg.Shallow,
		Verbose: flags.Verbose || cfg.Verbose,
	}
}

func main() {
	if len(os.Args) < 2 {
		tui.PrintHelp()
		os.Exit(cliout.ExitSuccess)
	}

	command := os.Args[1]

	switch command {
	case "--help", "-h", "help":
		tui.PrintHelp()
		os.Exit(cliout.ExitSuccess)
	case "--version":
		fmt.Printf("diffhouse %s\n", version.GetVersion())
		os.Exit(cliout.ExitSuccess)
	}

	flags, remaining := parseFlags(os.Args[2:])

	var cb tui.Callback
	if flags.Mode == cliout.ModeNormal && isInteractiveTerminal() {
		cb = tui.NewInteractiveCallback()
	} else {
		cb = tui.NewNonInteractiveCallback(flags.Flags)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch command {
	case "completion":
		runCompletion(remaining)
	case "cleanup":
		runCleanup(flags, cb)
	case "clone":
		runClone(ctx, flags, remaining, cb)
	case "commits":
		runCommits(ctx, flags, remaining, cb)
	case "filemods":
		runFileMods(ctx, flags, remaining, cb)
	case "diffs":
		runDiffs(ctx, flags, remaining, cb)
	case "branches":
		runBranches(ctx, flags, remaining, cb)
	case "tags":
		runTags(ctx, flags, remaining, cb)
	default:
		cb.ShowError("Unknown Command", fmt.Sprintf("%q is not a valid diffhouse command", command))
		fmt.Println()
		tui.PrintHelp()
		os.Exit(cliout.ExitInvalidArguments)
	}
}

// isInteractiveTerminal reports whether stdout is attached to a real
// terminal. A non-interactive callback is always safe; this only decides
// whether the richer one is worth the attempt.
func isInteractiveTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// locationArg resolves the repository location from the first positional
// argument, falling back to .diffhouse.yml's configured location when none
// was passed on the command line.
func locationArg(remaining []string, cb tui.Callback) string {
	if len(remaining) > 0 {
		return remaining[0]
	}
	cfg, _ := config.Load(".")
	if cfg.Location != "" {
		return cfg.Location
	}
	cb.ShowError("Missing Argument", "expected a repository location (URL or local path)")
	os.Exit(cliout.ExitInvalidArguments)
	return ""
}

func enterFacade(ctx context.Context, flags runFlags, location string, cb tui.Callback) *gitmine.RepoFacade {
	cfg := mergeConfig(flags)
	cfg.Location = location

	facade := gitmine.NewRepoFacade(cfg)
	if err := facade.Enter(ctx); err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}
	return facade
}

// emitError reports err through the JSON envelope in ModeJSON, or through
// the callback otherwise.
func emitError(flags runFlags, cb tui.Callback, err error) {
	if flags.Mode == cliout.ModeJSON {
		cliout.EmitError(err)
		return
	}
	cb.ShowError("Error", err.Error())
}

func runCompletion(remaining []string) {
	if len(remaining) == 0 {
		tui.PrintError("Usage", "diffhouse completion <bash|zsh|fish|powershell>")
		os.Exit(cliout.ExitInvalidArguments)
	}
	switch remaining[0] {
	case "bash":
		fmt.Print(cmd.GenerateBashCompletion())
	case "zsh":
		fmt.Print(cmd.GenerateZshCompletion())
	case "fish":
		fmt.Print(cmd.GenerateFishCompletion())
	case "powershell":
		fmt.Print(cmd.GeneratePowerShellCompletion())
	default:
		tui.PrintError("Usage", fmt.Sprintf("unknown shell %q (use bash, zsh, fish, or powershell)", remaining[0]))
		os.Exit(cliout.ExitInvalidArguments)
	}
}

func runCleanup(flags runFlags, cb tui.Callback) {
	if !flags.Yes && !cb.AskConfirmation("Clean up residual clones", "Remove all leftover temporary clone directories from killed diffhouse processes?") {
		os.Exit(cliout.ExitGeneralError)
	}

	removed, warnings := gitmine.CleanResidual()

	if flags.Mode == cliout.ModeJSON {
		cliout.EmitSuccess(map[string]interface{}{"removed": removed, "warnings": warnings})
		return
	}
	cb.ShowCleanupSummary(removed, warnings)
}

func runClone(ctx context.Context, flags runFlags, remaining []string, cb tui.Callback) {
	location := locationArg(remaining, cb)
	facade := enterFacade(ctx, flags, location, cb)
	defer facade.Exit()

	dir, err := facade.Dir()
	if err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}

	if flags.Mode == cliout.ModeJSON {
		cliout.EmitSuccess(map[string]interface{}{"path": dir})
		return
	}
	cb.ShowSuccess(fmt.Sprintf("cloned to %s", dir))
}

func runCommits(ctx context.Context, flags runFlags, remaining []string, cb tui.Callback) {
	location := locationArg(remaining, cb)
	facade := enterFacade(ctx, flags, location, cb)
	defer facade.Exit()

	iter, err := facade.Commits(ctx, flags.Shortstat)
	if err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}
	defer iter.Close()

	enc := json.NewEncoder(os.Stdout)
	for {
		commit, ok := iter.Next()
		if !ok {
			break
		}
		_ = enc.Encode(commit) //nolint:errcheck
	}
	reportWarnings(flags, cb, iter.Warnings())
}

func runFileMods(ctx context.Context, flags runFlags, remaining []string, cb tui.Callback) {
	location := locationArg(remaining, cb)
	facade := enterFacade(ctx, flags, location, cb)
	defer facade.Exit()

	iter, err := facade.FileMods(ctx)
	if err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}
	defer iter.Close()

	enc := json.NewEncoder(os.Stdout)
	for {
		fileMod, ok := iter.Next()
		if !ok {
			break
		}
		_ = enc.Encode(fileMod) //nolint:errcheck
	}
	reportWarnings(flags, cb, iter.Warnings())
}

func runDiffs(ctx context.Context, flags runFlags, remaining []string, cb tui.Callback) {
	location := locationArg(remaining, cb)
	facade := enterFacade(ctx, flags, location, cb)
	defer facade.Exit()

	iter, err := facade.Diffs(ctx)
	if err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}
	defer iter.Close()

	enc := json.NewEncoder(os.Stdout)
	for {
		diff, ok := iter.Next()
		if !ok {
			break
		}
		_ = enc.Encode(diff) //nolint:errcheck
	}
	reportWarnings(flags, cb, iter.Warnings())
}

func runBranches(ctx context.Context, flags runFlags, remaining []string, cb tui.Callback) {
	location := locationArg(remaining, cb)
	facade := enterFacade(ctx, flags, location, cb)
	defer facade.Exit()

	branches, err := facade.Branches(ctx)
	if err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}

	if flags.Mode == cliout.ModeJSON {
		cliout.EmitSuccess(branches)
		return
	}
	for _, b := range branches {
		fmt.Println(b.Name)
	}
}

func runTags(ctx context.Context, flags runFlags, remaining []string, cb tui.Callback) {
	location := locationArg(remaining, cb)
	facade := enterFacade(ctx, flags, location, cb)
	defer facade.Exit()

	tags, err := facade.Tags(ctx)
	if err != nil {
		emitError(flags, cb, err)
		os.Exit(cliout.ExitCode(err))
	}

	if flags.Mode == cliout.ModeJSON {
		cliout.EmitSuccess(tags)
		return
	}
	for _, t := range tags {
		fmt.Println(t.Name)
	}
}

// reportWarnings surfaces parser warnings collected during a stream. They
// never fail the command: one malformed record must never hide the rest
// of a long history.
func reportWarnings(flags runFlags, cb tui.Callback, warnings []*gitmine.ParserWarning) {
	if len(warnings) == 0 {
		return
	}
	if flags.Mode == cliout.ModeJSON {
		return
	}
	for _, w := range warnings {
		cb.ShowWarning("Parser Warning", w.Error())
	}
}
