package compose

import "fmt"

// Stage identifies one invocation inside the assembly of a reel.
type Stage string

const (
	StageMain   Stage = "main segment"
	StageTail   Stage = "tail segment"
	StageConcat Stage = "concat"
	StageMusic  Stage = "music overlay"
)

// TransformError reports which assembly stage failed for a recording. The
// captured ffmpeg stderr is kept so the caller can log it.
type TransformError struct {
	Stage  Stage
	Stderr string
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
