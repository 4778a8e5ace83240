package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/device"
	"github.com/backmassage/reelforge/internal/ffmpeg"
	"github.com/backmassage/reelforge/internal/logging"
	"github.com/backmassage/reelforge/internal/naming"
	"github.com/backmassage/reelforge/internal/probe"
)

// --- Fakes ---

type fakeBridge struct {
	files   []device.RemoteFile
	listErr error
	pulled  []string
}

func (f *fakeBridge) List(ctx context.Context, dir string) ([]device.RemoteFile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeBridge) Pull(ctx context.Context, remotePath, localPath string) error {
	name := path.Base(remotePath)
	f.pulled = append(f.pulled, name)
	var size int64
	for _, rf := range f.files {
		if rf.Name == name {
			size = rf.Size
		}
	}
	return os.WriteFile(localPath, make([]byte, size), 0o644)
}

// fakeEngine writes the output file (the last argument) like ffmpeg would.
// When failInput is set, any call whose -i value contains it fails instead.
type fakeEngine struct {
	calls     [][]string
	failInput string
}

func (f *fakeEngine) Run(ctx context.Context, args []string, verbose bool) ffmpeg.ExecResult {
	f.calls = append(f.calls, args)
	if f.failInput != "" {
		for i, a := range args {
			if a == "-i" && i+1 < len(args) && strings.Contains(args[i+1], f.failInput) {
				return ffmpeg.ExecResult{
					Stderr: "Invalid data found when processing input",
					Err:    errors.New("exit status 1"),
				}
			}
		}
	}
	out := args[len(args)-1]
	if err := os.WriteFile(out, []byte("rendered"), 0o644); err != nil {
		return ffmpeg.ExecResult{Err: err}
	}
	return ffmpeg.ExecResult{}
}

func stubProbe(duration float64) ProbeFunc {
	return func(ctx context.Context, path string) (*probe.ProbeResult, error) {
		return &probe.ProbeResult{
			Format: probe.FormatInfo{Duration: duration},
			PrimaryVideo: &probe.VideoStream{
				Codec: "h264", Width: 1080, Height: 2400, AvgFrameRate: "30/1",
			},
		}, nil
	}
}

// --- Helpers ---

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Paths.InputDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.ColorMode = config.ColorNever
	return &cfg
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func writeRecording(t *testing.T, dir, name string, size int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
	return p
}

// --- Run tests ---

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	log := testLogger(t, cfg)

	bridge := &fakeBridge{files: []device.RemoteFile{
		{Name: "screen-20250812-094512.mp4", Size: 5000},
		{Name: "screen-20250813-101500.mp4", Size: 6000},
	}}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, log, Deps{Bridge: bridge, Engine: eng, Probe: stubProbe(25)})

	assert.Equal(t, 2, stats.Pulled)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.False(t, stats.Aborted)

	// Three invocations per recording: main, tail, concat.
	assert.Len(t, eng.calls, 6)
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "screen-20250812-094512_reel.mp4"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "screen-20250813-101500_reel.mp4"))
}

func TestRun_SecondRunIdempotent(t *testing.T) {
	cfg := testConfig(t)
	log := testLogger(t, cfg)

	bridge := &fakeBridge{files: []device.RemoteFile{
		{Name: "screen-20250812-094512.mp4", Size: 5000},
	}}

	first := Run(context.Background(), cfg, log, Deps{Bridge: bridge, Engine: &fakeEngine{}, Probe: stubProbe(25)})
	require.Equal(t, 1, first.Processed)

	second := &fakeEngine{}
	stats := Run(context.Background(), cfg, log, Deps{Bridge: bridge, Engine: second, Probe: stubProbe(25)})

	assert.Equal(t, 0, stats.Pulled)
	assert.Equal(t, 1, stats.UpToDate)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Processed)
	assert.Empty(t, second.calls)

	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "screen-20250812-094512_reel.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "rendered", string(data))
}

func TestRun_RemoteUnavailableAborts(t *testing.T) {
	cfg := testConfig(t)
	log := testLogger(t, cfg)

	bridge := &fakeBridge{
		listErr: fmt.Errorf("%w: adb: no devices/emulators found", device.ErrRemoteUnavailable),
	}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, log, Deps{Bridge: bridge, Engine: eng, Probe: stubProbe(25)})

	assert.True(t, stats.Aborted)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, eng.calls)
}

func TestRun_SkipSyncProcessesLocal(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "clip.mp4", 5000)
	eng := &fakeEngine{}

	// Bridge is nil: touching it would panic, proving sync never runs.
	stats := Run(context.Background(), cfg, log, Deps{Engine: eng, Probe: stubProbe(25)})

	assert.Equal(t, 0, stats.Pulled)
	assert.Equal(t, 1, stats.Processed)
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "clip_reel.mp4"))
}

func TestRun_TooShortSkipped(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "blink.mp4", 5000)
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, log, Deps{Engine: eng, Probe: stubProbe(1.5)})

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.Empty(t, eng.calls)
}

func TestRun_FailureIsolation(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "a.mp4", 5000)
	writeRecording(t, cfg.Paths.InputDir, "b.mp4", 5000)
	eng := &fakeEngine{failInput: "a.mp4"}

	stats := Run(context.Background(), cfg, log, Deps{Engine: eng, Probe: stubProbe(25)})

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Processed)
	assert.False(t, stats.Aborted)
	assert.NoFileExists(t, filepath.Join(cfg.Paths.OutputDir, "a_reel.mp4"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "b_reel.mp4"))
}

func TestRun_ProbeFailureCounted(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "broken.mp4", 5000)
	writeRecording(t, cfg.Paths.InputDir, "fine.mp4", 5000)

	prober := func(ctx context.Context, p string) (*probe.ProbeResult, error) {
		if filepath.Base(p) == "broken.mp4" {
			return nil, errors.New("moov atom not found")
		}
		return stubProbe(25)(ctx, p)
	}

	stats := Run(context.Background(), cfg, log, Deps{Engine: &fakeEngine{}, Probe: prober})

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Processed)
}

func TestRun_NoVideoStreamSkipped(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "audio-only.mp4", 5000)

	prober := func(ctx context.Context, p string) (*probe.ProbeResult, error) {
		return &probe.ProbeResult{Format: probe.FormatInfo{Duration: 25}}, nil
	}

	stats := Run(context.Background(), cfg, log, Deps{Engine: &fakeEngine{}, Probe: prober})

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
}

func TestRun_TinyFileCountsFailed(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "stub.mp4", 10)

	probeCalls := 0
	prober := func(ctx context.Context, p string) (*probe.ProbeResult, error) {
		probeCalls++
		return stubProbe(25)(ctx, p)
	}

	stats := Run(context.Background(), cfg, log, Deps{Engine: &fakeEngine{}, Probe: prober})

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, probeCalls)
}

func TestRun_DryRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = true
	log := testLogger(t, cfg)

	bridge := &fakeBridge{files: []device.RemoteFile{
		{Name: "screen-20250814-120000.mp4", Size: 4000},
	}}
	writeRecording(t, cfg.Paths.InputDir, "clip.mp4", 5000)
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, log, Deps{Bridge: bridge, Engine: eng, Probe: stubProbe(25)})

	// The pull is only previewed, so the transform phase sees just the
	// recording that was already local.
	assert.Equal(t, 1, stats.Pulled)
	assert.Empty(t, bridge.pulled)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Processed)
	assert.Empty(t, eng.calls)
	assert.NoFileExists(t, filepath.Join(cfg.Paths.OutputDir, "clip_reel.mp4"))
}

func TestRun_MusicArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipSync = true
	cfg.Music.Path = "/music/track.m4a"
	log := testLogger(t, cfg)

	writeRecording(t, cfg.Paths.InputDir, "clip.mp4", 5000)
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, log, Deps{Engine: eng, Probe: stubProbe(25)})

	assert.Equal(t, 1, stats.Processed)
	// Main, tail, concat, music.
	assert.Len(t, eng.calls, 4)

	reel := naming.ArtifactPath(filepath.Join(cfg.Paths.InputDir, "clip.mp4"), cfg.Paths.OutputDir)
	assert.FileExists(t, reel)
	assert.FileExists(t, naming.MusicArtifactPath(reel))
}

// --- Discover tests ---

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.mp4", "notes.txt", ".trashed-123.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.mp4"), 0o755))

	files, err := Discover(dir, []string{".mp4"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mp4"),
	}, files)
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CLIP.MP4"), []byte{}, 0o644))

	files, err := Discover(dir, []string{".mp4"})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, err := Discover(t.TempDir(), []string{".mp4"})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), []string{".mp4"})
	assert.Error(t, err)
}

// --- Dry-run integration test ---

func TestDryRunPipeline(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	cfg := testConfig(t)
	cfg.SkipSync = true
	cfg.DryRun = true
	log := testLogger(t, cfg)

	// Generate a 5-second synthetic portrait recording.
	clip := filepath.Join(cfg.Paths.InputDir, "screen-20250812-094512.mp4")
	gen := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=5:size=540x1200:rate=30",
		"-c:v", "libx264", "-preset", "ultrafast", "-pix_fmt", "yuv420p",
		"-y", clip,
	)
	gen.Stderr = os.Stderr
	require.NoError(t, gen.Run())

	stats := Run(context.Background(), cfg, log, Deps{})

	t.Logf("Total=%d Processed=%d Skipped=%d Failed=%d",
		stats.Total, stats.Processed, stats.Skipped, stats.Failed)

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 0, stats.Failed)

	entries, err := os.ReadDir(cfg.Paths.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry run must not write artifacts")
}
