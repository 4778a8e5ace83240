package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/plan"
)

// BuildSegmentArgs constructs the argument slice that renders one reel
// segment: seek and trim on the input side, apply the segment's filter
// chain, drop audio, and encode with the configured codec settings.
func BuildSegmentArgs(cfg *config.Config, seg plan.Segment, inputPath, outputPath string) []string {
	args := preamble(cfg)

	// --- Input trim (input-side seek, fast; zero clip length reads to EOF) ---
	if seg.StartOffset > 0 {
		args = append(args, "-ss", ffSeconds(seg.StartOffset))
	}
	if seg.ClipDuration > 0 {
		args = append(args, "-t", ffSeconds(seg.ClipDuration))
	}
	args = append(args, "-i", inputPath)

	// --- Filter chain ---
	args = append(args, "-vf", seg.Filter)

	// --- Strip audio ---
	args = append(args, "-an")

	// --- Video codec ---
	args = append(args,
		"-c:v", cfg.Encoder.Codec,
		"-preset", cfg.Encoder.Preset,
		"-crf", strconv.Itoa(cfg.Encoder.CRF),
		"-pix_fmt", cfg.Encoder.PixFmt,
	)

	return append(args, outputPath)
}

// BuildConcatArgs constructs the argument slice that joins rendered segments
// with the concat demuxer. Both segments come out of the same encode
// settings, so the join is a stream copy.
func BuildConcatArgs(cfg *config.Config, listPath, outputPath string) []string {
	args := preamble(cfg)
	args = append(args,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
	)
	return append(args, outputPath)
}

// BuildMusicArgs constructs the argument slice that lays the configured
// music track under an assembled reel. Video is stream-copied; audio comes
// from the track starting at the configured offset and is cut to the video
// length by -shortest.
func BuildMusicArgs(cfg *config.Config, videoPath, outputPath string) []string {
	args := preamble(cfg)
	args = append(args, "-i", videoPath)
	if cfg.Music.StartOffset > 0 {
		args = append(args, "-ss", ffSeconds(cfg.Music.StartOffset))
	}
	args = append(args,
		"-i", cfg.Music.Path,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
	)
	return append(args, outputPath)
}

// ConcatList renders the concat demuxer list: one file directive per line,
// paths single-quoted with embedded quotes escaped.
func ConcatList(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// preamble is the shared head of every invocation.
func preamble(cfg *config.Config) []string {
	args := make([]string, 0, 32)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")
	if cfg.Verbose {
		args = append(args, "-loglevel", "info", "-stats", "-stats_period", "1")
	} else {
		args = append(args, "-loglevel", "error")
	}
	return args
}

// ffSeconds formats a duration in seconds for an ffmpeg argument.
func ffSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
