// Package pipeline orchestrates the end-to-end run: device sync, per-file
// planning and assembly, and the summary report.
//
// Types:
//   - RunStats (sync counters, transform counters, the Aborted flag)
//   - Deps (injectable collaborators: device bridge, render engine, prober)
//
// Functions:
//   - Run(ctx, cfg, log, deps) → RunStats
//     Sync (unless skipped) → discover → for each recording:
//     idempotence check → validate → probe → plan → assemble →
//     optional music overlay.
//   - Discover(inputDir, exts) → []string
//     Flat listing, extension filter, dotfiles skipped, sorted.
//   - Analyze(ctx, cfg, log)
//     Status table: rendered / pending / too short / unreadable.
package pipeline
