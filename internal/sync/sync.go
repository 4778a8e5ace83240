// Package sync mirrors screen recordings from the capture device into the
// local input directory, pulling only files that are new or changed.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/reelforge/internal/config"
	"github.com/backmassage/reelforge/internal/device"
	"github.com/backmassage/reelforge/internal/display"
	"github.com/backmassage/reelforge/internal/logging"
)

// Result tallies one sync pass.
type Result struct {
	Remote   int // remote recordings after extension filtering
	Pulled   int
	UpToDate int
	Failed   int
}

// Run mirrors recordings from the device into cfg.Paths.InputDir. A file is
// pulled when it is absent locally or its local size differs from the remote
// size; equal sizes are assumed identical (no hashing). Local files with no
// remote counterpart are left alone.
//
// A listing failure aborts the pass with an error; individual pull failures
// are logged, counted in Result.Failed, and do not stop the remaining pulls.
func Run(ctx context.Context, bridge device.Bridge, cfg *config.Config, log *logging.Logger) (Result, error) {
	var res Result

	remote, err := bridge.List(ctx, cfg.Remote.Dir)
	if err != nil {
		return res, fmt.Errorf("list remote recordings: %w", err)
	}

	files := filterRemote(remote, cfg.MediaExts)
	res.Remote = len(files)
	if len(files) == 0 {
		log.Warn("No recordings found in %s", cfg.Remote.Dir)
		return res, nil
	}

	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		return res, fmt.Errorf("create input directory: %w", err)
	}
	local, err := Inventory(cfg.Paths.InputDir, cfg.MediaExts)
	if err != nil {
		return res, fmt.Errorf("scan input directory: %w", err)
	}

	for _, f := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		if size, ok := local[f.Name]; ok && size == f.Size {
			log.Debug(cfg.Verbose, "Up to date: %s", f.Name)
			res.UpToDate++
			continue
		}

		if cfg.DryRun {
			log.Success("[DRY] Would pull: %s (%s)", f.Name, display.FormatBytes(f.Size))
			res.Pulled++
			continue
		}

		log.Pull("Pulling %s (%s)", f.Name, display.FormatBytes(f.Size))
		localPath := filepath.Join(cfg.Paths.InputDir, f.Name)
		if err := bridge.Pull(ctx, path.Join(cfg.Remote.Dir, f.Name), localPath); err != nil {
			log.Error("Pull failed: %v", err)
			os.Remove(localPath)
			res.Failed++
			continue
		}
		res.Pulled++
	}

	return res, nil
}

// Inventory returns a name→size map of the media files directly inside dir.
// A missing directory yields an empty inventory.
func Inventory(dir string, exts []string) (map[string]int64, error) {
	inv := make(map[string]int64)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return inv, nil
		}
		return nil, err
	}

	match := extSet(exts)
	for _, e := range entries {
		if e.IsDir() || !match[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		inv[e.Name()] = fi.Size()
	}
	return inv, nil
}

// filterRemote keeps media files and sorts them by name so pulls happen in a
// deterministic order. Hidden entries are skipped; device storage prefixes
// trashed and half-written media with a dot.
func filterRemote(files []device.RemoteFile, exts []string) []device.RemoteFile {
	match := extSet(exts)
	var out []device.RemoteFile
	for _, f := range files {
		if strings.HasPrefix(f.Name, ".") {
			continue
		}
		if match[strings.ToLower(path.Ext(f.Name))] {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}
