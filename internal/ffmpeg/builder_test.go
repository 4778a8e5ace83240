package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/plan"
)

func defaultCfg() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func TestBuildSegmentArgs_MainSegment(t *testing.T) {
	cfg := defaultCfg()
	seg := plan.Segment{
		StartOffset:  0,
		ClipDuration: 23,
		SpeedFactor:  23.0 / 17.0,
		Filter:       "crop=iw:ih-130:0:0,setpts=PTS/1.352941,scale=-2:1920,pad=1080:1920:(ow-iw)/2:0,fps=30",
	}

	got := BuildSegmentArgs(cfg, seg, "in.mp4", "main.mp4")

	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-t", "23.000",
		"-i", "in.mp4",
		"-vf", "crop=iw:ih-130:0:0,setpts=PTS/1.352941,scale=-2:1920,pad=1080:1920:(ow-iw)/2:0,fps=30",
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"main.mp4",
	}
	assert.Equal(t, want, got)
}

func TestBuildSegmentArgs_TailSeeksInput(t *testing.T) {
	cfg := defaultCfg()
	seg := plan.Segment{
		StartOffset:  23,
		ClipDuration: 0, // to end of source
		SpeedFactor:  1,
		Filter:       "crop=iw:ih-130:0:0,scale=-2:1920,pad=1080:1920:(ow-iw)/2:0,fps=30",
	}

	got := BuildSegmentArgs(cfg, seg, "in.mp4", "tail.mp4")

	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-ss", "23.000",
		"-i", "in.mp4",
		"-vf", "crop=iw:ih-130:0:0,scale=-2:1920,pad=1080:1920:(ow-iw)/2:0,fps=30",
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"tail.mp4",
	}
	assert.Equal(t, want, got, "tail has no -t, it runs to the end of the source")
}

func TestBuildSegmentArgs_VerbosePreamble(t *testing.T) {
	cfg := defaultCfg()
	cfg.Verbose = true
	seg := plan.Segment{ClipDuration: 5, SpeedFactor: 1, Filter: "fps=30"}

	got := BuildSegmentArgs(cfg, seg, "in.mp4", "out.mp4")

	assert.Equal(t, []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "info", "-stats", "-stats_period", "1",
	}, got[:9])
	assert.NotContains(t, got, "error")
}

func TestBuildConcatArgs(t *testing.T) {
	got := BuildConcatArgs(defaultCfg(), "/tmp/work/concat.txt", "reel.mp4")

	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", "/tmp/work/concat.txt",
		"-c", "copy",
		"reel.mp4",
	}
	assert.Equal(t, want, got)
}

func TestBuildMusicArgs(t *testing.T) {
	cfg := defaultCfg()
	cfg.Music.Path = "/music/track.m4a"
	cfg.Music.StartOffset = 16

	got := BuildMusicArgs(cfg, "reel.mp4", "reel_music.mp4")

	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-i", "reel.mp4",
		"-ss", "16.000",
		"-i", "/music/track.m4a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		"reel_music.mp4",
	}
	assert.Equal(t, want, got)
}

func TestBuildMusicArgs_ZeroOffsetSkipsSeek(t *testing.T) {
	cfg := defaultCfg()
	cfg.Music.Path = "/music/track.m4a"
	cfg.Music.StartOffset = 0

	got := BuildMusicArgs(cfg, "reel.mp4", "reel_music.mp4")

	assert.NotContains(t, got, "-ss")
}

func TestConcatList(t *testing.T) {
	got := ConcatList([]string{"/tmp/w/main.mp4", "/tmp/w/tail.mp4"})
	assert.Equal(t, "file '/tmp/w/main.mp4'\nfile '/tmp/w/tail.mp4'\n", got)
}

func TestConcatList_EscapesQuotes(t *testing.T) {
	got := ConcatList([]string{"/tmp/it's here/main.mp4"})
	assert.Equal(t, `file '/tmp/it'\''s here/main.mp4'`+"\n", got)
}
