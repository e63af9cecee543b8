package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/eykd/crnodes/internal/nodes"
)

// FileBackend stores the snapshot as a JSON file.
type FileBackend struct {
	Path string
	now  func() time.Time
}

// NewFileBackend returns a backend reading and writing path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path, now: func() time.Time { return time.Now().UTC() }}
}

// Load reads the snapshot file. A missing file yields ErrNotFound.
func (b *FileBackend) Load(ctx context.Context) (nodes.State, error) {
	if err := ctx.Err(); err != nil {
		return nodes.State{}, err
	}
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nodes.State{}, ErrNotFound
	}
	if err != nil {
		return nodes.State{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return Decode(data)
}

// Save writes the snapshot atomically via a temp file in the same directory.
func (b *FileBackend) Save(ctx context.Context, s nodes.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s, b.now())
	if err != nil {
		return err
	}
	return WriteFileAtomic(b.Path, data)
}

// WriteFileAtomic replaces path with data. An existing read-only file is
// refused.
func WriteFileAtomic(path string, data []byte) error {
	if fi, statErr := os.Stat(path); statErr == nil {
		if fi.Mode().Perm()&0200 == 0 {
			return fmt.Errorf("%s is read-only", filepath.Base(path))
		}
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".crn-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
