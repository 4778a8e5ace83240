// Package naming derives artifact paths for assembled reels.
package naming

import (
	"path/filepath"
	"strings"
)

// ArtifactPath builds the reel path for a source recording: the source
// basename gains a "_reel" suffix before its extension and moves into
// outputDir.
//
//	recordings/screen-20250812-094512.mp4 -> <outputDir>/screen-20250812-094512_reel.mp4
func ArtifactPath(srcPath, outputDir string) string {
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(outputDir, stem+"_reel"+ext)
}

// MusicArtifactPath builds the companion music-overlay path for a reel by
// inserting "_music" before the extension.
func MusicArtifactPath(reelPath string) string {
	ext := filepath.Ext(reelPath)
	return strings.TrimSuffix(reelPath, ext) + "_music" + ext
}
