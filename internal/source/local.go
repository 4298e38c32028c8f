package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local is a file on the local filesystem
type Local struct {
	path string
}

// NewLocal creates a Source for a local path
func NewLocal(path string) *Local {
	return &Local{path: path}
}

func (l *Local) Size(ctx context.Context) (int64, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, l.path)
		}
		return 0, fmt.Errorf("failed to stat %s: %w", l.path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", l.path)
	}
	return info.Size(), nil
}

func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, l.path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", l.path, err)
	}
	return f, nil
}

func (l *Local) Name() string {
	return filepath.Base(l.path)
}

func (l *Local) String() string {
	return l.path
}
