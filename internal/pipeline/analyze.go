package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/display"
	"github.com/backmassage/reelforge/internal/logging"
	"github.com/backmassage/reelforge/internal/naming"
	"github.com/backmassage/reelforge/internal/plan"
	"github.com/backmassage/reelforge/internal/probe"
)

// Status colors for the analysis table.
var (
	renderedColor   = color.New(color.FgHiGreen)
	pendingColor    = color.New(color.FgHiCyan)
	tooShortColor   = color.New(color.FgHiYellow)
	unreadableColor = color.New(color.FgHiRed)
)

// fileRow holds the probed per-recording data for the analysis table.
type fileRow struct {
	Name     string
	Duration string
	Source   string
	Speed    string
	Status   string
	tint     *color.Color
}

// Analyze probes every local recording and prints a status table: what has
// already been rendered, what the next run would produce, and what cannot
// be processed under the current policy.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) {
	files, err := Discover(cfg.Paths.InputDir, cfg.MediaExts)
	if err != nil {
		log.Error("Cannot read input directory: %v", err)
		return
	}
	if len(files) == 0 {
		log.Warn("No recordings found in %s", cfg.Paths.InputDir)
		return
	}

	total := len(files)
	log.Info("Analyzing %d recordings in %s …", total, cfg.Paths.InputDir)
	fmt.Println()

	isTTY := isatty.IsTerminal(os.Stdout.Fd())
	rows := make([]fileRow, 0, total)
	var rendered, pending, tooShort, unreadable int

	for i, path := range files {
		if ctx.Err() != nil {
			if isTTY {
				clearProgress()
			}
			log.Warn("Interrupted")
			return
		}

		printProgress(isTTY, i+1, total, filepath.Base(path))
		row := fileRow{Name: filepath.Base(path), Duration: "-", Source: "-", Speed: "-"}

		pr, err := probe.Probe(ctx, path)
		switch {
		case err != nil || pr.PrimaryVideo == nil || pr.Duration() <= 0:
			row.Status, row.tint = "unreadable", unreadableColor
			unreadable++

		default:
			row.Duration = display.FormatDuration(pr.Duration())
			row.Source = pr.Resolution()

			rp, err := plan.Build(cfg, pr.Duration())
			if err != nil {
				row.Status, row.tint = "too short", tooShortColor
				tooShort++
				break
			}
			row.Speed = display.FormatSpeed(rp.Timing.SpeedFactor)

			if _, err := os.Stat(naming.ArtifactPath(path, cfg.Paths.OutputDir)); err == nil {
				row.Status, row.tint = "rendered", renderedColor
				rendered++
			} else {
				row.Status, row.tint = "pending", pendingColor
				pending++
			}
		}

		rows = append(rows, row)
	}
	if isTTY {
		clearProgress()
	}

	printStatusTable(rows)

	log.Info("Analyzed %d recordings", total)
	if rendered > 0 {
		log.Success("  %d rendered", rendered)
	}
	if pending > 0 {
		log.Info("  %d pending (a run would render them)", pending)
	}
	if tooShort > 0 {
		log.Warn("  %d too short (at or under the %s tail)",
			tooShort, display.FormatDuration(cfg.Reel.TailSeconds))
	}
	if unreadable > 0 {
		log.Error("  %d unreadable", unreadable)
	}
	if pending == 0 && tooShort == 0 && unreadable == 0 {
		log.Success("  Everything is rendered")
	}
}

func printStatusTable(rows []fileRow) {
	nameW := len("File")
	durW := len("Duration")
	srcW := len("Source")
	spdW := len("Speed")
	stW := len("Status")

	for _, r := range rows {
		if len(r.Name) > nameW {
			nameW = len(r.Name)
		}
		if len(r.Duration) > durW {
			durW = len(r.Duration)
		}
		if len(r.Source) > srcW {
			srcW = len(r.Source)
		}
		if len(r.Speed) > spdW {
			spdW = len(r.Speed)
		}
		if len(r.Status) > stW {
			stW = len(r.Status)
		}
	}
	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %-*s",
		nameW, "File", durW, "Duration", srcW, "Source", spdW, "Speed", stW, "Status")
	fmt.Println(header)
	fmt.Println("  " + strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := r.Name
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}
		fmt.Printf("  %-*s  %-*s  %-*s  %-*s  %s\n",
			nameW, name, durW, r.Duration, srcW, r.Source, spdW, r.Speed,
			colorPad(r.Status, stW, r.tint))
	}
	fmt.Println()
}

// colorPad pads the plain text first, then wraps it in color. This avoids
// the alignment bug where %-*s counts escape bytes as visible width.
func colorPad(s string, width int, c *color.Color) string {
	padded := fmt.Sprintf("%-*s", width, s)
	if c == nil {
		return padded
	}
	return c.Sprint(padded)
}

// printProgress shows a live probe counter. On a TTY it writes an inline
// \r-overwritten line; otherwise it is a no-op.
func printProgress(isTTY bool, current, total int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Probing [%d/%d] %d%% ", current, total, pct)

	maxName := 40
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	status += name

	// Pad to 80 chars to overwrite previous longer lines, then \r.
	if len(status) < 80 {
		status += strings.Repeat(" ", 80-len(status))
	}
	fmt.Fprintf(os.Stdout, "\r%s", status)
}

// clearProgress erases the inline progress line on a TTY.
func clearProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}
