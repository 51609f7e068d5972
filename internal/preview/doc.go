// Package preview manages per-unit proxy workspaces and thumbnail stills.
//
// Every transcode gets an exclusively owned temporary directory that is
// released on all exit paths, success or failure.
package preview
