// Command reelforge is the CLI entrypoint for the Reelforge reel builder.
//
// It parses flags, loads the policy config, and either runs system
// diagnostics (--check), prints the recording status table (--analyze), or
// runs the sync and transform pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/reelforge/internal/check"
	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/device"
	"github.com/backmassage/reelforge/internal/display"
	"github.com/backmassage/reelforge/internal/logging"
	"github.com/backmassage/reelforge/internal/pipeline"
)

// version and commit are injected at build time via -ldflags. When built
// with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}
	if err := config.Load(&cfg, cfg.ConfigFile); err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pipeline can stop between files without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	if cfg.AnalyzeOnly {
		if err := check.CheckProbeDeps(); err != nil {
			log.Error("%v", err)
			return 1
		}
		pipeline.Analyze(ctx, &cfg, log)
		return 0
	}

	// Resolve and validate paths. The input directory is created when
	// missing (the sync phase fills it on first run) unless --skip-sync,
	// where an absent input means there is nothing to do. The output must
	// not sit inside the input or the pipeline would discover its own reels.
	if cfg.SkipSync {
		if _, err := os.Stat(cfg.Paths.InputDir); err != nil {
			log.Error("Input not found: %s", cfg.Paths.InputDir)
			return 1
		}
	} else if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		log.Error("Cannot create input directory: %s", cfg.Paths.InputDir)
		return 1
	}
	inputAbs, err := absPath(cfg.Paths.InputDir)
	if err != nil {
		log.Error("Cannot resolve input path: %s", cfg.Paths.InputDir)
		return 1
	}
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.Paths.OutputDir)
		return 1
	}
	outputAbs, err := absPath(cfg.Paths.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.Paths.OutputDir)
		return 1
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.Paths.InputDir)
		return 1
	}

	log.Info("=== Reelforge v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.Paths.InputDir)
	log.Info("Out: %s", cfg.Paths.OutputDir)
	log.Info("")

	// Fail fast if ffmpeg/ffprobe/adb or the configured encoder are unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 4: Run pipeline (sync → discover → probe → plan → assemble).
	stats := pipeline.Run(ctx, &cfg, log, pipeline.Deps{
		Bridge: device.NewADB(cfg.Remote.Serial, cfg.Verbose),
	})

	if stats.Aborted {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
