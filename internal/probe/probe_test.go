package probe

import (
	"testing"
)

// Realistic ffprobe JSON for a portrait phone screen recording:
//   - 1 H.264 video stream (1080x2400, 30 fps)
//   - 1 AAC mono audio stream (mic capture)
const sampleRecording = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "profile": "High",
      "pix_fmt": "yuv420p",
      "width": 1080,
      "height": 2400,
      "bit_rate": "7983412",
      "avg_frame_rate": "30/1",
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": {}
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 1,
      "channel_layout": "mono",
      "sample_rate": "48000",
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": {}
    }
  ],
  "format": {
    "filename": "recordings/screen-20250812-094512.mp4",
    "nb_streams": 2,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "format_long_name": "QuickTime / MOV",
    "duration": "25.023000",
    "size": "24918345",
    "bit_rate": "7967112",
    "tags": { "major_brand": "mp42" }
  }
}`

// Silent capture with a non-integer frame rate (muted system recording).
const sampleSilent = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "profile": "Main",
      "pix_fmt": "yuv420p",
      "width": 1080,
      "height": 2400,
      "avg_frame_rate": "30000/1001",
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": {}
    }
  ],
  "format": {
    "filename": "recordings/screen-20250812-101533.mp4",
    "nb_streams": 1,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "19.000000",
    "size": "18003411",
    "bit_rate": "7580383",
    "tags": {}
  }
}`

// Audio-only file whose only video stream is embedded cover art.
const sampleAudioOnly = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 300,
      "height": 300,
      "disposition": { "default": 0, "attached_pic": 1 }
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 2,
      "channel_layout": "stereo",
      "sample_rate": "44100",
      "disposition": { "default": 1 }
    }
  ],
  "format": {
    "filename": "voice-note.m4a",
    "nb_streams": 2,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "31.441000",
    "size": "509871",
    "bit_rate": "129712",
    "tags": {}
  }
}`

func TestParseJSON_Recording(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleRecording))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	// Format
	if pr.Format.Filename != "recordings/screen-20250812-094512.mp4" {
		t.Errorf("filename: got %q", pr.Format.Filename)
	}
	if pr.Format.NbStreams != 2 {
		t.Errorf("nb_streams: got %d, want 2", pr.Format.NbStreams)
	}
	if pr.Format.Duration != 25.023 {
		t.Errorf("duration: got %f, want 25.023", pr.Format.Duration)
	}
	if pr.Format.Size != 24918345 {
		t.Errorf("size: got %d", pr.Format.Size)
	}
	if pr.Duration() != 25.023 {
		t.Errorf("Duration(): got %f", pr.Duration())
	}

	// Video
	if pr.PrimaryVideo == nil {
		t.Fatal("PrimaryVideo is nil")
	}
	if pr.PrimaryVideo.Codec != "h264" {
		t.Errorf("codec: got %q", pr.PrimaryVideo.Codec)
	}
	if pr.PrimaryVideo.Width != 1080 || pr.PrimaryVideo.Height != 2400 {
		t.Errorf("resolution: got %dx%d", pr.PrimaryVideo.Width, pr.PrimaryVideo.Height)
	}
	if pr.PrimaryVideo.PixFmt != "yuv420p" {
		t.Errorf("pix_fmt: got %q", pr.PrimaryVideo.PixFmt)
	}
	if got := pr.PrimaryVideo.FPS(); got != 30 {
		t.Errorf("fps: got %g, want 30", got)
	}

	// Audio
	if !pr.HasAudio() {
		t.Error("should have audio")
	}
	if len(pr.AudioStreams) != 1 {
		t.Fatalf("audio streams: got %d, want 1", len(pr.AudioStreams))
	}
	a := pr.AudioStreams[0]
	if a.Codec != "aac" || a.Channels != 1 || a.SampleRate != 48000 {
		t.Errorf("audio: codec=%q ch=%d sr=%d", a.Codec, a.Channels, a.SampleRate)
	}
}

func TestParseJSON_SilentCapture(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleSilent))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if pr.HasAudio() {
		t.Error("silent capture should have no audio")
	}
	if pr.PrimaryVideo == nil {
		t.Fatal("PrimaryVideo is nil")
	}
	fps := pr.PrimaryVideo.FPS()
	if fps < 29.96 || fps > 29.98 {
		t.Errorf("fps: got %g, want ~29.97", fps)
	}
	if got := pr.Resolution(); got != "1080x2400" {
		t.Errorf("resolution: got %q", got)
	}
}

func TestParseJSON_AttachedPicSkipped(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleAudioOnly))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if pr.PrimaryVideo != nil {
		t.Error("cover art must not become the primary video stream")
	}
	if !pr.HasAudio() {
		t.Error("should have audio")
	}
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := ParseJSON([]byte(`{invalid`))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseJSON_EmptyStreams(t *testing.T) {
	pr, err := ParseJSON([]byte(`{"streams":[],"format":{"filename":"empty.mp4","nb_streams":0}}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if pr.PrimaryVideo != nil {
		t.Error("expected nil PrimaryVideo")
	}
	if pr.Duration() != 0 {
		t.Errorf("duration: got %f, want 0", pr.Duration())
	}
	if got := pr.Resolution(); got != "unknown" {
		t.Errorf("resolution: got %q, want unknown", got)
	}
}

func TestVideoStreamFPS(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want float64
	}{
		{"integer rational", "30/1", 30},
		{"plain number", "60", 60},
		{"zero over zero", "0/0", 0},
		{"empty", "", 0},
		{"zero denominator", "30/0", 0},
		{"garbage", "abc/def", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &VideoStream{AvgFrameRate: tt.rate}
			if got := v.FPS(); got != tt.want {
				t.Errorf("FPS(%q) = %g, want %g", tt.rate, got, tt.want)
			}
		})
	}
}
