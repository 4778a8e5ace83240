package plan

// Timing holds the derived time parameters for one input file.
type Timing struct {
	SourceDuration float64 // probed input duration, seconds
	MainDuration   float64 // source minus tail; clip length fed into the main segment
	MainTarget     float64 // target total minus tail; main segment length after speed-up
	SpeedFactor    float64 // MainDuration / MainTarget
	TailStart      float64 // source minus tail; where the tail segment begins
}

// Segment describes one transform invocation: an optional input seek, an
// optional clip length, and the filter chain to apply.
type Segment struct {
	StartOffset  float64 // seconds to seek before decoding; 0 for the main segment
	ClipDuration float64 // seconds to keep from the input; 0 means to end of source
	SpeedFactor  float64 // 1 for the tail segment
	Filter       string  // comma-joined ffmpeg -vf chain
}

// ReelPlan is the complete per-file transform plan the composer executes:
// timing plus the two segment descriptions (sped-up main body, real-time tail).
type ReelPlan struct {
	Timing Timing
	Main   Segment
	Tail   Segment
}
