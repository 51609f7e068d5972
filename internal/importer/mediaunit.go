package importer

import "errors"

// UnitKind distinguishes frame sequences from single movie files.
type UnitKind string

const (
	KindSequence UnitKind = "sequence"
	KindFile     UnitKind = "file"
)

// ErrNoKind marks a media unit without a kind. This is a programming error,
// not an expected runtime condition.
var ErrNoKind = errors.New("media unit kind not specified")

// MediaUnit is one logical item to import.
type MediaUnit struct {
	Kind UnitKind
	// Path is the frame template for sequences or the movie path for files,
	// always slash-separated for catalog storage.
	Path        string
	DisplayName string
	// FirstFrame and LastFrame bound a sequence; zero for files.
	FirstFrame int
	LastFrame  int
}

// Outcome is the terminal state of one unit within a run.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// UnitResult pairs a unit with what happened to it.
type UnitResult struct {
	Unit     MediaUnit
	Category string
	Outcome  Outcome
	Err      error
}
