// Package sequence groups numbered frame files into logical image sequences.
//
// A directory of renders like key_light1.0001.exr .. key_light1.0120.exr is
// collapsed into a single FrameSequence carrying a templated path and the
// frame numbers that were actually present. Detection is non-recursive and
// purely name-based; file contents are never inspected.
package sequence
