// Package ffmpeg wraps the external encoder used for proxy generation.
//
// Two fixed recipes exist: single movie files are re-encoded to H.264 with
// AAC audio, and frame sequences additionally get a gamma adjustment and a
// fixed 25 fps frame rate. Success is judged solely by process exit status;
// encoder output is not inspected.
package ffmpeg
