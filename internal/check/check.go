// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, adb, and encoders.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/reelforge/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound   = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound  = errors.New("ffprobe not found on PATH")
	ErrADBNotFound      = errors.New("adb not found on PATH")
	ErrEncodeTestFailed = errors.New("video encoder test failed")
	ErrAACTestFailed    = errors.New("aac test encode failed (music overlay needs it)")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the configured video encoder, the AAC encoder, and the adb device
// link. This is informational only and does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	checkFfprobe(log)
	checkEncoder(cfg, log)
	checkAAC(log)
	checkADB(cfg, log)
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	log.Success("ffmpeg: %s", firstLine(string(out)))
}

// checkFfprobe verifies ffprobe is on PATH and logs its version string.
func checkFfprobe(log Logger) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return
	}
	out, err := exec.Command("ffprobe", "-version").Output()
	if err != nil {
		log.Warn("ffprobe found but -version failed: %v", err)
		return
	}
	log.Success("ffprobe: %s", firstLine(string(out)))
}

// checkEncoder runs a minimal encode with the configured video codec.
func checkEncoder(cfg *config.Config, log Logger) {
	log.Info("Testing %s...", cfg.Encoder.Codec)
	if runSilent("ffmpeg", encoderTestArgs(cfg.Encoder.Codec)...) {
		log.Success("%s works", cfg.Encoder.Codec)
	} else {
		log.Error("%s test encode failed", cfg.Encoder.Codec)
	}
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
// Only the music overlay encodes audio; reels themselves are silent.
func checkAAC(log Logger) {
	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg", aacTestArgs()...) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// checkADB verifies adb is on PATH and reports the attached device state.
func checkADB(cfg *config.Config, log Logger) {
	if _, err := exec.LookPath("adb"); err != nil {
		log.Error("adb not found")
		return
	}
	out, err := exec.Command("adb", "version").Output()
	if err != nil {
		log.Warn("adb found but version failed: %v", err)
		return
	}
	log.Success("adb: %s", firstLine(string(out)))

	state, err := adbDeviceState(cfg.Remote.Serial)
	if err != nil {
		log.Warn("No capture device attached: %v", err)
		return
	}
	if state == "device" {
		log.Success("Capture device attached")
	} else {
		log.Warn("Capture device state: %s (want \"device\")", state)
	}
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg, ffprobe,
// and (unless sync is skipped) adb are on PATH, that the configured video
// codec actually encodes, and that AAC works when a music track is set.
// Returns a sentinel error on failure. Device connectivity is not probed
// here; the sync phase reports that on its own.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !cfg.SkipSync {
		if _, err := exec.LookPath("adb"); err != nil {
			return ErrADBNotFound
		}
	}

	if !runSilent("ffmpeg", encoderTestArgs(cfg.Encoder.Codec)...) {
		return fmt.Errorf("%w: %s", ErrEncodeTestFailed, cfg.Encoder.Codec)
	}
	if cfg.Music.Path != "" {
		if !runSilent("ffmpeg", aacTestArgs()...) {
			return ErrAACTestFailed
		}
	}
	return nil
}

// CheckProbeDeps verifies ffprobe alone, which is all --analyze needs.
func CheckProbeDeps() error {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// --- internal helpers ---

// adbDeviceState returns the adb connection state ("device", "offline",
// "unauthorized"). adb prints its error to the combined output, so that
// text becomes the error when the command fails.
func adbDeviceState(serial string) (string, error) {
	args := []string{}
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "get-state")
	out, err := exec.Command("adb", args...).CombinedOutput()
	state := strings.TrimSpace(string(out))
	if err != nil {
		if state != "" {
			return "", errors.New(state)
		}
		return "", err
	}
	return state, nil
}

// encoderTestArgs returns the ffmpeg arguments for a minimal test encode
// with the given video codec. Shared by checkEncoder and CheckDeps to avoid
// duplicating the argument list.
func encoderTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

// aacTestArgs returns the ffmpeg arguments for a minimal AAC test encode.
func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// firstLine returns the first line of s with surrounding whitespace trimmed.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
