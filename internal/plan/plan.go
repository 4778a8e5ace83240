package plan

import (
	"errors"
	"fmt"

	"github.com/backmassage/reelforge/internal/config"
)

// ErrSourceTooShort is returned when a recording is no longer than the tail
// duration, leaving nothing to speed up.
var ErrSourceTooShort = errors.New("source shorter than tail duration")

// Build produces a complete ReelPlan from the reel policy and the probed
// source duration. This is the central timing computation the pipeline calls
// for every file.
//
// Flow:
//  1. Validate source duration against the tail policy
//  2. Derive timing (speed factor, tail start offset)
//  3. Build the two segment filter chains
func Build(cfg *config.Config, sourceDuration float64) (*ReelPlan, error) {
	// --- 1. Validation ---
	if sourceDuration <= cfg.Reel.TailSeconds {
		return nil, fmt.Errorf("%w: source %.2fs, tail %.2fs",
			ErrSourceTooShort, sourceDuration, cfg.Reel.TailSeconds)
	}

	// --- 2. Timing ---
	// The speed factor compresses everything before the tail into the
	// remaining target time. It is usually > 1; shorter sources yield a
	// slow-down, which the model allows.
	t := Timing{
		SourceDuration: sourceDuration,
		MainDuration:   sourceDuration - cfg.Reel.TailSeconds,
		MainTarget:     cfg.Reel.TargetSeconds - cfg.Reel.TailSeconds,
		TailStart:      sourceDuration - cfg.Reel.TailSeconds,
	}
	t.SpeedFactor = t.MainDuration / t.MainTarget

	// --- 3. Segments ---
	return &ReelPlan{
		Timing: t,
		Main: Segment{
			ClipDuration: t.MainDuration,
			SpeedFactor:  t.SpeedFactor,
			Filter:       BuildSegmentFilter(&cfg.Reel, t.SpeedFactor),
		},
		Tail: Segment{
			StartOffset: t.TailStart,
			SpeedFactor: 1,
			Filter:      BuildSegmentFilter(&cfg.Reel, 1),
		},
	}, nil
}
