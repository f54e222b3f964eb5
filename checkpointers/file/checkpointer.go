package filecheckpointer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

const DefaultPath = "./sequenceNumber.txt"

// Checkpointer stores the position as the whole content of one local file.
// Saves go through a temporary file and a rename, so a crash leaves either
// the old or the new position on disk.
type Checkpointer struct {
	path string
}

func New(path string) *Checkpointer {
	if path == "" {
		path = DefaultPath
	}
	return &Checkpointer{path: path}
}

func (c *Checkpointer) Path() string {
	return c.path
}

func (c *Checkpointer) Load(context.Context) (string, bool, error) {
	b, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, xerrors.Errorf("failed to read %s: %w", c.path, err)
	}
	seq := strings.TrimSpace(string(b))
	return seq, seq != "", nil
}

func (c *Checkpointer) Save(_ context.Context, position string) error {
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*")
	if err != nil {
		return xerrors.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(position); err != nil {
		tmp.Close()
		return xerrors.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return xerrors.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return xerrors.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return xerrors.Errorf("failed to replace %s: %w", c.path, err)
	}
	return syncDir(dir)
}

func (c *Checkpointer) Clear(context.Context) error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return xerrors.Errorf("failed to remove %s: %w", c.path, err)
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return xerrors.Errorf("failed to open %s: %w", dir, err)
	}
	defer d.Close()
	// Some filesystems refuse to fsync a directory; the rename already happened.
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return xerrors.Errorf("failed to sync %s: %w", dir, err)
	}
	return nil
}
