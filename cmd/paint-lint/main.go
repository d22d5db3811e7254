// =============================================================================
// paint-lint - Main Entry Point
// =============================================================================
//
// paint-lint keeps raw colors and pixel lengths out of stylesheets so that
// every paint value goes through the design system's palette and spacing
// helpers.
//
// THE PIPELINE:
//   1. The SCSS parser (or tree-sitter, for .css) turns a file into a tree
//   2. The linter walks every node and hands literal strings to the rules
//   3. paint-color and paint-units scan the literal for raw tokens
//   4. Context checks (maps, allowed calls) suppress legitimate uses
//   5. Issues are reported with file/line/column locations
//
// WHEN INVESTIGATING FALSE POSITIVES:
//   Run paint-tree on the file first. Most surprises are a literal sitting
//   under a different container than expected, not a scanner bug.
// =============================================================================

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/robert-at-pretension-io/paint-lint/internal/config"
	"github.com/robert-at-pretension-io/paint-lint/internal/runner"
)

type options struct {
	verbose    bool
	jsonOutput bool
	sarif      bool
	timing     bool
	configPath string
	path       string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "init":
		return runInit()
	case "-h", "--help", "help":
		printUsage()
		return 0
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		return 1
	}
	return runLint(opts)
}

func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-v", "--verbose":
			opts.verbose = true
		case "--json":
			opts.jsonOutput = true
		case "--sarif":
			opts.sarif = true
		case "--timing":
			opts.timing = true
		case "-c", "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a file argument", arg)
			}
			i++
			opts.configPath = args[i]
		default:
			if len(arg) > 1 && arg[0] == '-' {
				return opts, fmt.Errorf("unknown option %s", arg)
			}
			if opts.path != "" {
				return opts, fmt.Errorf("only one path may be linted, got %s and %s", opts.path, arg)
			}
			opts.path = arg
		}
	}
	if opts.path == "" {
		return opts, fmt.Errorf("missing path")
	}
	if opts.jsonOutput && opts.sarif {
		return opts, fmt.Errorf("--json and --sarif are mutually exclusive")
	}
	return opts, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: paint-lint [command] [options] <path>

Commands:
  init              Create a paint_lint.json configuration file
  <path>            Lint .scss and .css files in the given file or directory

Options:
  -v, --verbose     Enable verbose output and debug logging
  -c, --config      Specify config file: paint-lint -c config.json <path>
      --json        Emit the result as JSON
      --sarif       Emit the result as SARIF 2.1.0
      --timing      Write timing.jsonl next to the linted path
  -h, --help        Show this help message

Configuration:
  paint-lint looks for configuration in:
    1. ./paint_lint.json, ./.paint_lint.json, ./paint_lint.toml
    2. the same names under <path>
    3. ~/.config/paint_lint/config.json

  Run 'paint-lint init' to create a default configuration file.

Exit status is 1 when any warning or error is reported.`)
}

func runInit() int {
	configPath := config.FileName

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", configPath)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return 0
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
		return 1
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("\nEdit this file to configure:")
	fmt.Println("  - Stylesheet file patterns")
	fmt.Println("  - Lint rule severities")
	fmt.Println("  - Functions allowed to receive raw colors and lengths")
	return 0
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runLint(opts options) int {
	logger := newLogger(opts.verbose)

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(opts.path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := runner.New(cfg)
	r.Verbose = opts.verbose
	r.JSONOutput = opts.jsonOutput
	r.SARIFOutput = opts.sarif
	r.Timing = opts.timing
	r.Logger = logger

	result, err := r.Run(ctx, opts.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if result.HasFailures() {
		return 1
	}
	return 0
}
