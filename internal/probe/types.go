package probe

import "strconv"

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	NbStreams  int
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	PixFmt        string
	Width         int
	Height        int
	AvgFrameRate  string
	IsAttachedPic bool
}

// FPS returns the average frame rate as a float, parsing ffprobe's
// rational "num/den" form (e.g. "30000/1001"). Returns 0 when unknown.
func (v *VideoStream) FPS() float64 {
	s := v.AvgFrameRate
	if s == "" || s == "0/0" {
		return 0
	}
	if num, den, ok := splitRational(s); ok {
		if den == 0 {
			return 0
		}
		return num / den
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func splitRational(s string) (num, den float64, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			n, err1 := strconv.ParseFloat(s[:i], 64)
			d, err2 := strconv.ParseFloat(s[i+1:], 64)
			if err1 != nil || err2 != nil {
				return 0, 0, false
			}
			return n, d, true
		}
	}
	return 0, 0, false
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index      int
	Codec      string
	Channels   int
	SampleRate int
}

// ProbeResult is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type ProbeResult struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// Duration returns the container duration in seconds (0 when unknown).
func (p *ProbeResult) Duration() float64 {
	return p.Format.Duration
}

// HasAudio reports whether the file carries at least one audio stream.
func (p *ProbeResult) HasAudio() bool {
	return len(p.AudioStreams) > 0
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (p *ProbeResult) Resolution() string {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Width <= 0 || p.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(p.PrimaryVideo.Width) + "x" + strconv.Itoa(p.PrimaryVideo.Height)
}
