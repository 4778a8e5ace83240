// Package config holds runtime configuration: defaults, the optional YAML
// policy file, environment overrides, CLI flag parsing, and validation.
// Policy values (remote dir, reel timing, crop, resolution) are config-time
// settings, not per-run flags; flags only select run modes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultConfigFile is consulted when --config is not given. A missing file
// is not an error; defaults and environment variables apply.
const DefaultConfigFile = "reelforge.yml"

// RemoteConfig describes the capture device side of the sync.
type RemoteConfig struct {
	// Serial selects a device when more than one is attached (adb -s).
	Serial string `yaml:"serial" env:"REELFORGE_REMOTE_SERIAL"`
	// Dir is the on-device directory holding the recordings.
	Dir string `yaml:"dir" env:"REELFORGE_REMOTE_DIR"`
}

// PathsConfig holds the local directories the pipeline works in.
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" env:"REELFORGE_INPUT_DIR"`
	OutputDir string `yaml:"output_dir" env:"REELFORGE_OUTPUT_DIR"`
}

// ReelConfig is the fixed output profile. Every produced reel follows this
// policy; there are no per-file overrides.
type ReelConfig struct {
	TailSeconds   float64 `yaml:"tail_seconds" env:"REELFORGE_TAIL_SECONDS"`     // Default: 2.
	TargetSeconds float64 `yaml:"target_seconds" env:"REELFORGE_TARGET_SECONDS"` // Default: 19.
	CropBottomPx  int     `yaml:"crop_bottom_px" env:"REELFORGE_CROP_BOTTOM_PX"` // Default: 130.
	Width         int     `yaml:"width" env:"REELFORGE_WIDTH"`                   // Default: 1080.
	Height        int     `yaml:"height" env:"REELFORGE_HEIGHT"`                 // Default: 1920.
	FPS           int     `yaml:"fps" env:"REELFORGE_FPS"`                       // Default: 30.
}

// EncoderConfig holds the segment encode settings. Both segments must share
// these exactly or the final stream-copy concat would fail.
type EncoderConfig struct {
	Codec  string `yaml:"codec" env:"REELFORGE_CODEC"`   // Default: "libx264".
	Preset string `yaml:"preset" env:"REELFORGE_PRESET"` // Default: "veryfast".
	CRF    int    `yaml:"crf" env:"REELFORGE_CRF"`       // Default: 23.
	PixFmt string `yaml:"pix_fmt"`                       // Fixed: "yuv420p".
}

// MusicConfig enables the optional background-music artifact. An empty Path
// disables the step entirely.
type MusicConfig struct {
	Path        string  `yaml:"path" env:"REELFORGE_MUSIC_PATH"`
	StartOffset float64 `yaml:"start_offset" env:"REELFORGE_MUSIC_OFFSET"` // Seconds into the track. Default: 16.
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [Load] (YAML file + env), and finally mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	Paths   PathsConfig   `yaml:"paths"`
	Reel    ReelConfig    `yaml:"reel"`
	Encoder EncoderConfig `yaml:"encoder"`
	Music   MusicConfig   `yaml:"music"`

	// MediaExts are the extensions (lowercase, leading dot) treated as
	// recordings on both the device and the input directory.
	MediaExts []string `yaml:"media_exts" env:"REELFORGE_MEDIA_EXTS"`

	// Run-mode switches (flags only, never read from the config file).
	ConfigFile  string    `yaml:"-"`
	DryRun      bool      `yaml:"-"`
	SkipSync    bool      `yaml:"-"`
	Verbose     bool      `yaml:"-"`
	CheckOnly   bool      `yaml:"-"`
	AnalyzeOnly bool      `yaml:"-"`
	LogFile     string    `yaml:"-"`
	ColorMode   ColorMode `yaml:"-"`
}

// DefaultConfig returns a Config with the fixed reel policy defaults. Used
// as the base before [Load] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			Dir: "/sdcard/DCIM/Screen recordings",
		},
		Paths: PathsConfig{
			InputDir:  "recordings",
			OutputDir: "reels",
		},
		Reel: ReelConfig{
			TailSeconds:   2,
			TargetSeconds: 19,
			CropBottomPx:  130,
			Width:         1080,
			Height:        1920,
			FPS:           30,
		},
		Encoder: EncoderConfig{
			Codec:  "libx264",
			Preset: "veryfast",
			CRF:    23,
			PixFmt: "yuv420p",
		},
		Music: MusicConfig{
			StartOffset: 16,
		},
		MediaExts: []string{".mp4"},
		ColorMode: ColorAuto,
	}
}

// Load overlays the YAML config file and environment variables onto cfg.
// When path is empty, [DefaultConfigFile] is used if it exists; a missing
// default file only means environment variables are read. An explicitly
// given path must exist.
func Load(cfg *Config, path string) error {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return cleanenv.ReadEnv(cfg)
	}

	cfg.ConfigFile = path
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the reel policy, encoder settings, and paths. When not in
// CheckOnly mode it also requires non-empty local directories. Extensions
// and directory values are canonicalized in place.
func (c *Config) Validate() error {
	if c.Reel.TailSeconds < 0 {
		return errors.New("reel tail_seconds must not be negative")
	}
	if c.Reel.TargetSeconds <= c.Reel.TailSeconds {
		return fmt.Errorf("reel target_seconds (%g) must exceed tail_seconds (%g)",
			c.Reel.TargetSeconds, c.Reel.TailSeconds)
	}
	if c.Reel.CropBottomPx < 0 {
		return errors.New("reel crop_bottom_px must not be negative")
	}
	if c.Reel.Width <= 0 || c.Reel.Height <= 0 {
		return fmt.Errorf("invalid reel resolution %dx%d", c.Reel.Width, c.Reel.Height)
	}
	if c.Reel.FPS <= 0 {
		return errors.New("reel fps must be positive")
	}
	if c.Encoder.Codec == "" {
		return errors.New("encoder codec must not be empty")
	}
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		return fmt.Errorf("encoder crf %d out of range (0-51)", c.Encoder.CRF)
	}
	if c.Music.StartOffset < 0 {
		return errors.New("music start_offset must not be negative")
	}

	exts, err := normalizeExts(c.MediaExts)
	if err != nil {
		return err
	}
	c.MediaExts = exts

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Remote.Dir == "" && !c.SkipSync && !c.AnalyzeOnly {
		return errors.New("remote dir must be set (or pass --skip-sync)")
	}
	if c.Paths.InputDir == "" || c.Paths.OutputDir == "" {
		return errors.New("input_dir and output_dir must be set")
	}
	c.Paths.InputDir = NormalizeDirArg(c.Paths.InputDir)
	c.Paths.OutputDir = NormalizeDirArg(c.Paths.OutputDir)
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory, which would make the pipeline discover
// its own artifacts. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

// normalizeExts lowercases extensions and enforces the leading dot.
// Accepted forms: "mp4", ".mp4", ".MP4". The list must not be empty.
func normalizeExts(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("media_exts must not be empty")
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			return nil, errors.New("media_exts contains an empty entry")
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == "." {
			return nil, fmt.Errorf("invalid media extension %q", e)
		}
		out = append(out, e)
	}
	return out, nil
}
