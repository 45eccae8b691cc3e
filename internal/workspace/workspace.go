// Package workspace provides request-private scratch directories under a
// shared temp root. Every request works in its own uuid-named directory,
// so concurrent requests can never collide on artifact filenames.
package workspace

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace is a scratch directory owned by a single request.
type Workspace struct {
	Dir string
}

// New creates a fresh workspace directory under root.
func New(root string) (*Workspace, error) {
	dir := filepath.Join(root, uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// SaveUpload writes the reader's contents into the workspace under the
// sanitized base name of the client-supplied filename.
func (w *Workspace) SaveUpload(filename string, r io.Reader) (string, error) {
	dst := w.Join(SanitizeName(filename))

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return dst, nil
}

// Join returns the path of name inside the workspace.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.Dir, name)
}

// Remove deletes the workspace and everything in it. It is safe to call
// more than once and never fails the caller; cleanup must not mask the
// request's primary outcome.
func (w *Workspace) Remove() {
	if w == nil || w.Dir == "" {
		return
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		log.Printf("[workspace] cleanup failed for %s: %v", w.Dir, err)
		return
	}
	w.Dir = ""
}

// SanitizeName reduces a client-supplied filename to a safe base name.
// Path separators and traversal components are stripped; an empty or
// degenerate result falls back to "upload".
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "" || base == "." || base == ".." || base == "/" {
		return "upload"
	}
	return base
}
