package pipeline

// RunStats tracks aggregate counters across one run: transfer tallies from
// the sync phase and per-recording outcomes from the transform phase.
type RunStats struct {
	// Sync phase.
	Pulled     int
	UpToDate   int
	PullFailed int

	// Transform phase.
	Total     int
	Current   int
	Processed int
	Skipped   int
	Failed    int

	// Aborted is set when a run-level collaborator is unavailable (device
	// listing, input directory, output directory). Per-file failures never
	// set it; they only count toward PullFailed and Failed.
	Aborted bool
}
