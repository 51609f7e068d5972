package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"testing"
)

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("FFMPEG_HELPER_MODE") == "fail" {
		os.Exit(3)
	}
	os.Exit(0)
}

func captureCommand(t *testing.T, mode string) *[]string {
	t.Helper()
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return &captured
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override, got %q", cli.binary)
	}
}

func TestEncodeFileRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.EncodeFile(context.Background(), "", "/tmp/out.mov"); err == nil {
		t.Fatal("expected error for empty input")
	}
	if err := cli.EncodeFile(context.Background(), "/media/in.mp4", ""); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestEncodeFileRecipe(t *testing.T) {
	captured := captureCommand(t, "success")
	cli := NewCLI()
	if err := cli.EncodeFile(context.Background(), "/media/in.mp4", "/tmp/out.mov"); err != nil {
		t.Fatal(err)
	}
	want := []string{"-y", "-i", "/media/in.mp4", "-vcodec", "libx264", "-pix_fmt", "yuv420p", "-acodec", "aac", "/tmp/out.mov"}
	assertArgs(t, *captured, want)
}

func TestEncodeSequenceRecipe(t *testing.T) {
	captured := captureCommand(t, "success")
	cli := NewCLI()
	if err := cli.EncodeSequence(context.Background(), "/media/plate.%04d.exr", 1001, "/tmp/out.mov"); err != nil {
		t.Fatal(err)
	}
	want := []string{"-y", "-gamma", "2.2", "-start_number", "1001", "-i", "/media/plate.%04d.exr", "-vcodec", "libx264", "-pix_fmt", "yuv420p", "-r", "25", "/tmp/out.mov"}
	assertArgs(t, *captured, want)
}

func TestExtractPosterRecipe(t *testing.T) {
	captured := captureCommand(t, "success")
	cli := NewCLI()
	if err := cli.ExtractPoster(context.Background(), "/tmp/out.mov", "/tmp/poster.png"); err != nil {
		t.Fatal(err)
	}
	want := []string{"-y", "-i", "/tmp/out.mov", "-frames:v", "1", "/tmp/poster.png"}
	assertArgs(t, *captured, want)
}

func TestEncodeFailureSurfacesExitStatus(t *testing.T) {
	captureCommand(t, "fail")
	cli := NewCLI()
	if err := cli.EncodeFile(context.Background(), "/media/in.mp4", "/tmp/out.mov"); err == nil {
		t.Fatal("expected error from failing encoder")
	}
}

func assertArgs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}
