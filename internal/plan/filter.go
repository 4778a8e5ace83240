package plan

import (
	"fmt"
	"strings"

	"github.com/backmassage/reelforge/internal/config"
)

// BuildSegmentFilter constructs the comma-joined ffmpeg video filter chain
// for one segment: bottom crop, time rescale, height-bound scale, centered
// horizontal pad, and constant output frame rate.
//
// speed == 1 omits the setpts stage so the segment keeps real-time playback.
// Both segments must share the crop/scale/pad/fps tail so the concat step
// can stream-copy them into one output.
func BuildSegmentFilter(reel *config.ReelConfig, speed float64) string {
	var filters []string

	if reel.CropBottomPx > 0 {
		filters = append(filters, fmt.Sprintf("crop=iw:ih-%d:0:0", reel.CropBottomPx))
	}
	if speed != 1 {
		filters = append(filters, fmt.Sprintf("setpts=PTS/%.6f", speed))
	}
	filters = append(filters,
		fmt.Sprintf("scale=-2:%d", reel.Height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:0", reel.Width, reel.Height),
		fmt.Sprintf("fps=%d", reel.FPS),
	)

	return strings.Join(filters, ",")
}
