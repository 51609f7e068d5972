// Package logging builds the slog loggers used across Stockwell.
//
// It provides a console handler that renders bracket-timestamped lines
// (colored when attached to a terminal) and a JSON handler for machine
// consumption. Construct loggers through New so every subsystem shares level
// handling and output fan-out.
package logging
