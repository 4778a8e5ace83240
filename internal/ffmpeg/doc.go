// Package ffmpeg builds and executes the ffmpeg invocations behind a reel:
// the sped-up main segment, the real-time tail segment, the concat stream
// copy that joins them, and the optional music overlay.
//
// Types:
//   - ExecResult (captured stderr plus the process error)
//
// Functions:
//   - BuildSegmentArgs(cfg, segment, in, out) → []string
//     Input-side seek/trim, -vf filter chain, -an, configured codec.
//   - BuildConcatArgs(cfg, listPath, out) → []string
//     Concat demuxer with -safe 0 and -c copy.
//   - BuildMusicArgs(cfg, video, out) → []string
//     Video copy, music track offset via input-side -ss, AAC, -shortest.
//   - ConcatList(paths) → string
//     Demuxer list content with quote escaping.
//   - Execute(ctx, args, verbose) → ExecResult
//     Run ffmpeg, capture stderr, optional tee to os.Stderr.
package ffmpeg
