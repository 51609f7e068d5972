package journal

import "time"

// Run is one import invocation.
type Run struct {
	ID                int64
	RunUUID           string
	RootDir           string
	OverwriteExisting bool
	ImportSubfolders  bool
	Authorized        bool
	StartedAt         time.Time
	FinishedAt        *time.Time

	// Outcome counts aggregated from run_units.
	Created int
	Skipped int
	Failed  int
}

// Unit is one processed media unit within a run.
type Unit struct {
	ID          int64
	RunID       int64
	Category    string
	DisplayName string
	Kind        string
	MediaPath   string
	Outcome     string
	Detail      string
	RecordedAt  time.Time
}
