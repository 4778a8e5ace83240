// Package plan turns a probed source duration and the reel policy into the
// per-file transform plan: how much to speed up the body, where the
// real-time tail begins, and the filter chains both segments run.
//
// Types:
//   - Timing (derived time parameters: speed factor, tail start)
//   - Segment (one transform invocation: seek, clip length, filter chain)
//   - ReelPlan (timing plus the main and tail segment descriptions)
//
// Functions:
//   - Build(cfg, sourceDuration) → *ReelPlan
//     Validates against the tail policy, derives timing, builds both
//     segments. Returns ErrSourceTooShort when nothing remains to speed up.
//   - BuildSegmentFilter(reel, speed) → string
//     crop → setpts → scale → pad → fps, comma-joined for -vf.
package plan
