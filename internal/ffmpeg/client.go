package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

var commandContext = exec.CommandContext

// Client defines the encoder operations the importer drives.
type Client interface {
	EncodeFile(ctx context.Context, inputPath, outputPath string) error
	EncodeSequence(ctx context.Context, templatePath string, startFrame int, outputPath string) error
	ExtractPoster(ctx context.Context, inputPath, outputPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI invokes the ffmpeg command-line encoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// EncodeFile transcodes a single movie file into a review proxy.
func (c *CLI) EncodeFile(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	args := []string{
		"-y",
		"-i", inputPath,
		"-vcodec", "libx264",
		"-pix_fmt", "yuv420p",
		"-acodec", "aac",
		outputPath,
	}
	return c.run(ctx, args)
}

// EncodeSequence transcodes a numbered frame sequence into a review proxy.
// templatePath must contain a printf-style frame field (e.g. %04d).
func (c *CLI) EncodeSequence(ctx context.Context, templatePath string, startFrame int, outputPath string) error {
	if templatePath == "" {
		return errors.New("template path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	args := []string{
		"-y",
		"-gamma", "2.2",
		"-start_number", strconv.Itoa(startFrame),
		"-i", templatePath,
		"-vcodec", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", "25",
		outputPath,
	}
	return c.run(ctx, args)
}

// ExtractPoster grabs the first frame of a movie as a still image.
func (c *CLI) ExtractPoster(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	args := []string{
		"-y",
		"-i", inputPath,
		"-frames:v", "1",
		outputPath,
	}
	return c.run(ctx, args)
}

func (c *CLI) run(ctx context.Context, args []string) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", c.binary, err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
