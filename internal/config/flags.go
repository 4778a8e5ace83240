package config

// This file implements CLI flag parsing and help text.
// The pipeline takes no positional arguments; policy lives in the config
// file, and flags only select run modes (dry-run, skip-sync, check, ...).

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, stray positional
// argument). Load is called by the caller after flags resolve --config.
func ParseFlags(cfg *Config, version string) error {
	fs := pflag.NewFlagSet("reelforge", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() { printUsage(version) }

	var (
		forceColor  bool
		noColor     bool
		showVersion bool
		showHelp    bool
	)

	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "Policy config file (default: "+DefaultConfigFile+" if present)")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; no pulls, no transforms")
	fs.BoolVarP(&cfg.SkipSync, "skip-sync", "s", false, "Process existing local inputs without the device")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVarP(&cfg.AnalyzeOnly, "analyze", "a", false, "Print a reel status table for local recordings and exit")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output (tee ffmpeg/adb stderr)")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVar(&forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&showVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "reelforge v"+version)
		os.Exit(0)
	}

	if noColor {
		cfg.ColorMode = ColorNever
	} else if forceColor {
		cfg.ColorMode = ColorAlways
	}

	if args := fs.Args(); len(args) != 0 {
		return fmt.Errorf("unexpected argument %q (directories come from the config file)", args[0])
	}
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 26 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "reelforge v" + version + " — capture sync and reel composition"},
		{"", ""},
		{"  reelforge [OPTIONS]", ""},
		{"", ""},
		{"Run modes", ""},
		{"  -d, --dry-run", "Preview only; no pulls, no transforms"},
		{"  -s, --skip-sync", "Process existing local inputs without the device"},
		{"  --check", "System diagnostics (adb, ffmpeg, ffprobe, encoders)"},
		{"  -a, --analyze", "Status table of local recordings (no processing)"},
		{"", ""},
		{"Configuration", ""},
		{"  -c, --config <path>", "Policy config file (default: " + DefaultConfigFile + " if present)"},
		{"      (policy values also honor REELFORGE_* environment variables)", ""},
		{"", ""},
		{"Display", ""},
		{"  -v, --verbose", "Verbose output (tee ffmpeg/adb stderr)"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
