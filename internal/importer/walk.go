package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stockwell/internal/sequence"
)

// exrMarker switches a whole directory into sequence handling. This is a
// substring match on purpose: render directories carry sidecar files like
// plate.exr.tmp and must still be treated as sequence directories.
const exrMarker = ".exr"

// movieSuffixes are matched case-sensitively against filenames.
var movieSuffixes = []string{".mov", ".mp4"}

// collectUnits walks root and converts its contents into media units. At
// each directory level, any entry name containing ".exr" routes the whole
// directory through sequence detection; otherwise mov/mp4 files become
// individual file units.
func collectUnits(root string) ([]MediaUnit, error) {
	var units []MediaUnit

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("list directory %s: %w", path, err)
		}

		if containsEXR(entries) {
			// Every numbered sequence in the directory is imported, not
			// just the exr frames; the marker only selects the branch.
			seqs, err := sequence.Detect(path)
			if err != nil {
				return err
			}
			for _, seq := range seqs {
				units = append(units, sequenceUnit(seq))
			}
			return nil
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if unit, ok := fileUnit(path, entry.Name()); ok {
				units = append(units, unit)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

// PlanEntry lists the units one category would receive.
type PlanEntry struct {
	Category string
	Units    []MediaUnit
}

// Plan previews an import without touching the catalog. It applies the same
// root expansion and walk rules as Run.
func Plan(rootDir string, importSubfolders bool) ([]PlanEntry, error) {
	roots, err := expandRoots(rootDir, importSubfolders)
	if err != nil {
		return nil, err
	}

	var plan []PlanEntry
	for _, root := range roots {
		units, err := collectUnits(root)
		if err != nil {
			return nil, err
		}
		plan = append(plan, PlanEntry{Category: filepath.Base(root), Units: units})
	}
	return plan, nil
}

// expandRoots resolves which directories become categories for a run.
func expandRoots(rootDir string, importSubfolders bool) ([]string, error) {
	if !importSubfolders {
		return []string{rootDir}, nil
	}
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("list library root: %w", err)
	}
	var roots []string
	for _, entry := range entries {
		if entry.IsDir() {
			roots = append(roots, filepath.Join(rootDir, entry.Name()))
		}
	}
	return roots, nil
}

func containsEXR(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if strings.Contains(entry.Name(), exrMarker) {
			return true
		}
	}
	return false
}

func sequenceUnit(seq sequence.FrameSequence) MediaUnit {
	template := filepath.ToSlash(seq.TemplatePath)
	parent := filepath.Base(filepath.Dir(seq.TemplatePath))
	return MediaUnit{
		Kind:        KindSequence,
		Path:        template,
		DisplayName: parent + " (exr)",
		FirstFrame:  seq.First(),
		LastFrame:   seq.Last(),
	}
}

func fileUnit(dir, name string) (MediaUnit, bool) {
	matched := false
	for _, suffix := range movieSuffixes {
		if strings.HasSuffix(name, suffix) {
			matched = true
			break
		}
	}
	if !matched {
		return MediaUnit{}, false
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	display := stem + " (" + strings.TrimPrefix(ext, ".") + ")"
	return MediaUnit{
		Kind:        KindFile,
		Path:        filepath.ToSlash(filepath.Join(dir, name)),
		DisplayName: display,
	}, true
}
