// Package pipeline orchestrates the end-to-end run: device sync, per-file
// planning and assembly, and the summary report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/reelforge/internal/compose"
	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/device"
	"github.com/backmassage/reelforge/internal/display"
	"github.com/backmassage/reelforge/internal/logging"
	"github.com/backmassage/reelforge/internal/naming"
	"github.com/backmassage/reelforge/internal/plan"
	"github.com/backmassage/reelforge/internal/probe"
	"github.com/backmassage/reelforge/internal/sync"
)

const minFileSize = 1000

// ProbeFunc matches probe.Probe and exists so tests can substitute it.
type ProbeFunc func(ctx context.Context, path string) (*probe.ProbeResult, error)

// Deps are the external collaborators a run shells out to. Zero fields fall
// back to the real implementations; tests inject fakes.
type Deps struct {
	Bridge device.Bridge
	Engine compose.Engine
	Probe  ProbeFunc
}

// Run is the top-level entry point. It syncs recordings from the device
// (unless skipped), discovers local inputs, processes each one
// sequentially, and returns aggregate stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) RunStats {
	var stats RunStats

	if deps.Engine == nil {
		deps.Engine = compose.ExecEngine{}
	}
	if deps.Probe == nil {
		deps.Probe = probe.Probe
	}

	// --- Sync phase ---
	if cfg.SkipSync {
		log.Info("Sync skipped (--skip-sync)")
	} else {
		res, err := sync.Run(ctx, deps.Bridge, cfg, log)
		stats.Pulled, stats.UpToDate, stats.PullFailed = res.Pulled, res.UpToDate, res.Failed
		if err != nil {
			log.Error("Sync failed: %v", err)
			stats.Aborted = true
			return stats
		}
	}
	fmt.Println()

	// --- Discover ---
	files, err := Discover(cfg.Paths.InputDir, cfg.MediaExts)
	if err != nil {
		log.Error("Cannot read input directory: %v", err)
		stats.Aborted = true
		return stats
	}
	stats.Total = len(files)

	logBatchHeader(cfg, log, &stats)

	if stats.Total == 0 {
		log.Warn("Nothing to process")
		return stats
	}

	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		stats.Aborted = true
		return stats
	}

	composer := compose.New(cfg, log, deps.Engine)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		processFile(ctx, cfg, log, composer, deps.Probe, path, &stats)
	}

	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one recording: idempotence check → validate → probe →
// plan → assemble → optional music overlay.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	composer *compose.Composer,
	probeFn ProbeFunc,
	path string,
	stats *RunStats,
) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	// --- Idempotence: an existing reel is never reprocessed ---
	outputPath := naming.ArtifactPath(path, cfg.Paths.OutputDir)
	if _, err := os.Stat(outputPath); err == nil {
		log.Warn("Skip (reel exists): %s", filepath.Base(outputPath))
		stats.Skipped++
		fmt.Println()
		return
	}

	// --- Validate ---
	fi, err := os.Stat(path)
	if err != nil {
		log.Error("File not found: %s", path)
		stats.Failed++
		fmt.Println()
		return
	}
	if fi.Size() < minFileSize {
		log.Error("File too small (possibly corrupt): %s", path)
		stats.Failed++
		fmt.Println()
		return
	}

	// --- Probe ---
	pr, err := probeFn(ctx, path)
	if err != nil {
		log.Error("Cannot probe recording: %v", err)
		stats.Failed++
		fmt.Println()
		return
	}
	if pr.PrimaryVideo == nil {
		log.Warn("No video stream found, skipping")
		stats.Skipped++
		fmt.Println()
		return
	}
	duration := pr.Duration()
	if duration <= 0 {
		log.Error("Duration unknown (possibly corrupt): %s", basename)
		stats.Failed++
		fmt.Println()
		return
	}

	log.Info("  Source: %s | %s | %s",
		display.FormatDuration(duration), pr.Resolution(), pr.PrimaryVideo.Codec)

	// --- Plan ---
	rp, err := plan.Build(cfg, duration)
	if err != nil {
		if errors.Is(err, plan.ErrSourceTooShort) {
			log.Warn("Skip (too short): %v", err)
			stats.Skipped++
		} else {
			log.Error("Planning failed: %v", err)
			stats.Failed++
		}
		fmt.Println()
		return
	}
	log.Info("  -> %s", filepath.Base(outputPath))

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would render at %s", display.FormatSpeed(rp.Timing.SpeedFactor))
		if cfg.Music.Path != "" {
			log.Success("[DRY] Would add music track")
		}
		stats.Processed++
		fmt.Println()
		return
	}

	// --- Assemble ---
	start := time.Now()
	if err := composer.Assemble(ctx, rp, path, outputPath); err != nil {
		if ctx.Err() != nil {
			log.Warn("Interrupted, discarding partial output")
			fmt.Println()
			return
		}
		log.Error("Transform failed: %v", err)
		var te *compose.TransformError
		if errors.As(err, &te) {
			logStderr(log, te.Stderr)
		}
		stats.Failed++
		fmt.Println()
		return
	}

	// --- Music (optional; the reel artifact stands on its own) ---
	if cfg.Music.Path != "" {
		musicOut := naming.MusicArtifactPath(outputPath)
		if err := composer.AddMusic(ctx, outputPath, musicOut); err != nil {
			log.Warn("Music overlay failed (reel kept): %v", err)
			var te *compose.TransformError
			if errors.As(err, &te) {
				logStderr(log, te.Stderr)
			}
		}
	}

	elapsed := time.Since(start)
	if out, statErr := os.Stat(outputPath); statErr == nil {
		log.Debug(cfg.Verbose, "  Size: %s (%s vs source)",
			display.FormatBytes(out.Size()),
			display.FormatBytesWithSign(out.Size()-fi.Size()))
	}
	stats.Processed++
	log.Success("Rendered in %ds -> %s", int(elapsed.Seconds()), filepath.Base(outputPath))
	fmt.Println()
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d recordings", stats.Total)
	log.Info("Reel: %s total with %s real-time tail",
		display.FormatDuration(cfg.Reel.TargetSeconds),
		display.FormatDuration(cfg.Reel.TailSeconds))
	log.Info("Frame: %dx%d at %d fps, bottom %dpx cropped",
		cfg.Reel.Width, cfg.Reel.Height, cfg.Reel.FPS, cfg.Reel.CropBottomPx)
	log.Info("Encoder: %s (%s, crf %d)",
		cfg.Encoder.Codec, cfg.Encoder.Preset, cfg.Encoder.CRF)
	if cfg.Music.Path != "" {
		log.Info("Music: %s (starting %s in)",
			filepath.Base(cfg.Music.Path), display.FormatDuration(cfg.Music.StartOffset))
	}
	if cfg.DryRun {
		log.Info("Dry run: no reels will be written")
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	if !cfg.SkipSync {
		log.Info("Sync: %d pulled, %d up to date, %d failed",
			stats.Pulled, stats.UpToDate, stats.PullFailed)
	}
	log.Info("Done: %d rendered, %d skipped, %d failed",
		stats.Processed, stats.Skipped, stats.Failed)
	if cfg.DryRun {
		log.Info("  (dry run: nothing was written)")
	}
}
