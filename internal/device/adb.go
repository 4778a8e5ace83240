package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ADB drives the adb binary on PATH. Serial selects a device when several
// are attached; empty means the single default device.
type ADB struct {
	Bin     string // adb binary; empty means "adb"
	Serial  string
	Verbose bool // tee adb output to the terminal
}

// NewADB returns a Bridge backed by the adb binary.
func NewADB(serial string, verbose bool) *ADB {
	return &ADB{Bin: "adb", Serial: serial, Verbose: verbose}
}

// command builds an adb invocation with the optional -s serial prefix.
func (a *ADB) command(ctx context.Context, args ...string) *exec.Cmd {
	bin := a.Bin
	if bin == "" {
		bin = "adb"
	}
	full := make([]string, 0, len(args)+2)
	if a.Serial != "" {
		full = append(full, "-s", a.Serial)
	}
	full = append(full, args...)
	return exec.CommandContext(ctx, bin, full...)
}

// List runs ls -ln in the device shell and parses the result. The remote
// path is single-quoted because the device shell splits on whitespace
// (capture dirs like "Screen recordings" contain spaces).
func (a *ADB) List(ctx context.Context, dir string) ([]RemoteFile, error) {
	cmd := a.command(ctx, "shell", "ls", "-ln", shellQuote(dir))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := firstLine(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("%w: list %q: %s", ErrRemoteUnavailable, dir, detail)
	}
	return ParseListOutput(stdout.String()), nil
}

// Pull copies one remote file via adb pull. Paths are passed as plain argv
// here; only the device shell needs quoting.
func (a *ADB) Pull(ctx context.Context, remotePath, localPath string) error {
	cmd := a.command(ctx, "pull", remotePath, localPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if a.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}
	if err := cmd.Run(); err != nil {
		detail := firstLine(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return &TransferError{RemotePath: remotePath, Err: errors.New(detail)}
	}
	return nil
}

// ParseListOutput converts ls -ln output into RemoteFile entries, keeping
// regular files only. Exported for testing without a device.
//
// Handles both field layouts seen on devices:
//
//	-rw-rw---- 1 0 9997 24918345 2025-08-12 09:45 name.mp4   (toybox)
//	-rw-rw---- root sdcard_rw 24918345 2025-08-12 09:45 name.mp4
//
// In both, the size sits three fields before the name, and names may
// contain spaces.
func ParseListOutput(out string) []RemoteFile {
	var files []RemoteFile
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "total ") {
			continue
		}
		if line[0] != '-' { // directories, links, sockets
			continue
		}
		fields := strings.Fields(line)
		sizeIdx := -1
		for _, idx := range []int{4, 3} {
			if idx < len(fields) {
				if _, err := strconv.ParseInt(fields[idx], 10, 64); err == nil {
					sizeIdx = idx
					break
				}
			}
		}
		if sizeIdx < 0 || len(fields) < sizeIdx+4 {
			continue
		}
		size, _ := strconv.ParseInt(fields[sizeIdx], 10, 64)
		name := strings.Join(fields[sizeIdx+3:], " ")
		files = append(files, RemoteFile{Name: name, Size: size})
	}
	return files
}

// shellQuote wraps s in single quotes for the device shell, escaping any
// embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
