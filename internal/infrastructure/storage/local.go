// Package storage keeps evidence payloads on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.FileStorage = (*Local)(nil)

var errUnsafePath = errors.New("storage: path escapes upload directory")

// Local stores files flat under a single directory. Stored paths are relative
// to that directory.
type Local struct {
	dir string
}

// NewLocal creates dir if needed and returns a Local rooted there.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", abs, err)
	}
	return &Local{dir: abs}, nil
}

// Save writes r to name atomically and returns the stored path.
func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	full, err := l.resolve(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return filepath.Base(full), nil
}

func (l *Local) Open(path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (l *Local) Remove(path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// resolve maps a stored path to a file directly inside the upload directory.
// Older records may carry a directory prefix; only the base name is used.
func (l *Local) resolve(path string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(path, "\\", "/")))
	if base == "/" || base == "." || base == ".." || strings.HasPrefix(base, ".") {
		return "", errUnsafePath
	}
	return filepath.Join(l.dir, base), nil
}

// ctxReader aborts a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
