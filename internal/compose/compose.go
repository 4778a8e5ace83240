// Package compose assembles reels from planned segments: both segments are
// rendered into a scoped work directory, joined with a concat stream copy,
// and published with an atomic rename.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/display"
	"github.com/backmassage/reelforge/internal/ffmpeg"
	"github.com/backmassage/reelforge/internal/logging"
	"github.com/backmassage/reelforge/internal/plan"
)

// Engine runs one external command described by its argument slice.
type Engine interface {
	Run(ctx context.Context, args []string, verbose bool) ffmpeg.ExecResult
}

// ExecEngine runs commands through the real ffmpeg binary.
type ExecEngine struct{}

func (ExecEngine) Run(ctx context.Context, args []string, verbose bool) ffmpeg.ExecResult {
	return ffmpeg.Execute(ctx, args, verbose)
}

// Composer renders and assembles reel artifacts.
type Composer struct {
	cfg    *config.Config
	log    *logging.Logger
	engine Engine
}

// New returns a Composer that renders through the given engine.
func New(cfg *config.Config, log *logging.Logger, engine Engine) *Composer {
	return &Composer{cfg: cfg, log: log, engine: engine}
}

// Assemble renders the planned reel for inputPath and publishes it at
// outputPath. Intermediates live in a work directory next to the output so
// the final rename stays on one filesystem; the directory is removed on
// every path out.
func (c *Composer) Assemble(ctx context.Context, rp *plan.ReelPlan, inputPath, outputPath string) error {
	workDir := filepath.Join(filepath.Dir(outputPath), ".reelforge-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	ext := filepath.Ext(outputPath)
	mainPath := filepath.Join(workDir, "main"+ext)
	tailPath := filepath.Join(workDir, "tail"+ext)

	// --- Main segment (sped up) ---
	t := rp.Timing
	c.log.Render("Main segment: %s -> %s at %s",
		display.FormatDuration(t.MainDuration),
		display.FormatDuration(t.MainTarget),
		display.FormatSpeed(t.SpeedFactor))
	if res := c.engine.Run(ctx, ffmpeg.BuildSegmentArgs(c.cfg, rp.Main, inputPath, mainPath), c.cfg.Verbose); res.Err != nil {
		return &TransformError{Stage: StageMain, Stderr: res.Stderr, Err: res.Err}
	}

	// --- Tail segment (real time) ---
	c.log.Render("Tail segment: last %s in real time", display.FormatDuration(c.cfg.Reel.TailSeconds))
	if res := c.engine.Run(ctx, ffmpeg.BuildSegmentArgs(c.cfg, rp.Tail, inputPath, tailPath), c.cfg.Verbose); res.Err != nil {
		return &TransformError{Stage: StageTail, Stderr: res.Stderr, Err: res.Err}
	}

	// --- Join ---
	listPath := filepath.Join(workDir, "concat.txt")
	list := ffmpeg.ConcatList([]string{mainPath, tailPath})
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		return &TransformError{Stage: StageConcat, Err: fmt.Errorf("write list: %w", err)}
	}

	c.log.Render("Joining segments")
	assembled := filepath.Join(workDir, "reel"+ext)
	if res := c.engine.Run(ctx, ffmpeg.BuildConcatArgs(c.cfg, listPath, assembled), c.cfg.Verbose); res.Err != nil {
		return &TransformError{Stage: StageConcat, Stderr: res.Stderr, Err: res.Err}
	}

	// --- Publish ---
	if err := os.Rename(assembled, outputPath); err != nil {
		return fmt.Errorf("publish %s: %w", filepath.Base(outputPath), err)
	}
	return nil
}

// AddMusic lays the configured music track under the reel at reelPath and
// publishes the result at outputPath, again via temp file plus rename.
func (c *Composer) AddMusic(ctx context.Context, reelPath, outputPath string) error {
	tmp := filepath.Join(filepath.Dir(outputPath), ".reelforge-"+uuid.NewString()+filepath.Ext(outputPath))
	defer os.Remove(tmp)

	c.log.Render("Music track: %s from %s in",
		filepath.Base(c.cfg.Music.Path),
		display.FormatDuration(c.cfg.Music.StartOffset))
	if res := c.engine.Run(ctx, ffmpeg.BuildMusicArgs(c.cfg, reelPath, tmp), c.cfg.Verbose); res.Err != nil {
		return &TransformError{Stage: StageMusic, Stderr: res.Stderr, Err: res.Err}
	}

	if err := os.Rename(tmp, outputPath); err != nil {
		return fmt.Errorf("publish %s: %w", filepath.Base(outputPath), err)
	}
	return nil
}
