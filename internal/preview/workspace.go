package preview

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a temporary directory owned by a single transcode operation.
type Workspace struct {
	dir string
}

// NewWorkspace creates a uniquely named temporary directory.
func NewWorkspace() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), "stockwell-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// MoviePath returns the proxy movie location for the given display name.
func (w *Workspace) MoviePath(displayName string) string {
	return filepath.Join(w.dir, displayName+".mov")
}

// PosterPath returns the poster still location.
func (w *Workspace) PosterPath() string {
	return filepath.Join(w.dir, "poster.png")
}

// ThumbnailPath returns the downscaled thumbnail location.
func (w *Workspace) ThumbnailPath() string {
	return filepath.Join(w.dir, "thumbnail.jpg")
}

// Cleanup removes the workspace directory and everything in it. Safe to call
// more than once and from deferred paths.
func (w *Workspace) Cleanup() {
	if w == nil || w.dir == "" {
		return
	}
	_ = os.RemoveAll(w.dir)
	w.dir = ""
}
