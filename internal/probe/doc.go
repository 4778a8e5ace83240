// Package probe provides ffprobe-based media inspection and typed result
// structures. A single JSON call per file yields everything the planner
// needs: container duration, stream layout, and the primary video stream.
//
// Types:
//   - FormatInfo, VideoStream, AudioStream, ProbeResult
//
// Functions:
//   - Probe(ctx, path) → *ProbeResult
//     Runs ffprobe -print_format json -show_format -show_streams.
//   - ParseJSON(data) → *ProbeResult
//     Wire-to-domain conversion, exported for tests.
//   - (*ProbeResult).Duration(), HasAudio(), Resolution()
//   - (*VideoStream).FPS()
//     Parses ffprobe's rational "num/den" frame rate.
package probe
