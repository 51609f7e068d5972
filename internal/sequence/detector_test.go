package sequence

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetectGroupsSingleSequence(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "shot010.0001.exr", "shot010.0002.exr", "shot010.0003.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	seq := seqs[0]
	if len(seq.Frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(seq.Frames))
	}
	want := filepath.Join(dir, "shot010.%04d.exr")
	if seq.TemplatePath != want {
		t.Fatalf("template %q, want %q", seq.TemplatePath, want)
	}
}

func TestDetectFrameBounds(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.0001.exr", "a.0002.exr", "a.0005.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	seq := seqs[0]
	got := map[string]bool{}
	for _, frame := range seq.Frames {
		got[frame] = true
	}
	for _, want := range []string{"0001", "0002", "0005"} {
		if !got[want] {
			t.Fatalf("frame %s missing from %v", want, seq.Frames)
		}
	}
	if seq.First() != 1 || seq.Last() != 5 {
		t.Fatalf("bounds = (%d, %d), want (1, 5)", seq.First(), seq.Last())
	}
}

func TestDetectEmptyDirectory(t *testing.T) {
	seqs, err := Detect(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 0 {
		t.Fatalf("got %d sequences, want 0", len(seqs))
	}
}

func TestDetectSingleFrameIsValid(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "lonely_0042.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	if seqs[0].First() != 42 || seqs[0].Last() != 42 {
		t.Fatalf("bounds = (%d, %d), want (42, 42)", seqs[0].First(), seqs[0].Last())
	}
	want := filepath.Join(dir, "lonely_%04d.exr")
	if seqs[0].TemplatePath != want {
		t.Fatalf("template %q, want %q", seqs[0].TemplatePath, want)
	}
}

func TestDetectSeparatorNotPartOfKey(t *testing.T) {
	dir := t.TempDir()
	// Same prefix and extension but different separators collapse into one
	// group; the template keeps the first-seen separator.
	touch(t, dir, "shot.1001.exr", "shot_1002.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	if len(seqs[0].Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(seqs[0].Frames))
	}
}

func TestDetectDistinctPrefixesStaySeparate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "key_light1.0001.exr", "key_light1.0002.exr", "fill_light1.0001.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2", len(seqs))
	}
}

func TestDetectIgnoresUnnumberedFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt", "render.mov", "plate.0001.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
}

func TestDetectSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "nested.0001.exr"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, dir, "plate.0001.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	if len(seqs[0].Frames) != 1 {
		t.Fatalf("directory entry leaked into frames: %v", seqs[0].Frames)
	}
}

func TestDetectExtensionFilterFirstSightingOnly(t *testing.T) {
	dir := t.TempDir()
	// The jpg file arrives first in listing order and establishes the group;
	// the allow-list rejects it entirely. The exr group forms normally. A
	// later jpg for an established group would be accepted, which is the
	// historical first-sighting behaviour.
	touch(t, dir, "plate.0001.jpg", "plate.0001.exr", "plate.0002.exr")

	seqs, err := Detect(dir, WithExtensions("exr"))
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	if len(seqs[0].Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(seqs[0].Frames))
	}
}

func TestDetectStrictFilteringChecksEveryMember(t *testing.T) {
	dir := t.TempDir()
	// Extension capture is verbatim, so the uppercase file forms its own
	// group key and gets rejected by the allow-list at first sighting in
	// both modes; strict mode additionally re-checks established groups.
	touch(t, dir, "plate.0001.exr", "plate.0002.EXR")

	seqs, err := Detect(dir, WithExtensions("exr"), WithStrictFiltering())
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	if len(seqs[0].Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(seqs[0].Frames))
	}
}

func TestDetectCustomPlaceholder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "plate.0001.exr")

	seqs, err := Detect(dir, WithPlaceholder("{FRAME}"))
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	want := filepath.Join(dir, "plate.{FRAME}.exr")
	if seqs[0].TemplatePath != want {
		t.Fatalf("template %q, want %q", seqs[0].TemplatePath, want)
	}
}

func TestDetectPaddingFixedPerGroup(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "wide.00001.exr", "narrow.01.exr")

	seqs, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2", len(seqs))
	}
	templates := map[string]bool{}
	for _, seq := range seqs {
		templates[filepath.Base(seq.TemplatePath)] = true
	}
	if !templates["wide.%05d.exr"] || !templates["narrow.%02d.exr"] {
		t.Fatalf("unexpected templates: %v", templates)
	}
}

func TestDetectMissingDirectory(t *testing.T) {
	if _, err := Detect(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
