// Package file implements the local-filesystem data source the CLI reads
// disclosure files from.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a filesystem data source bound to one path.
type Local struct{ path string }

// NewLocal returns a Local data source for path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context already canceled at
// call time returns its error without touching the filesystem. Filesystem
// errors are wrapped with the path while keeping errors.Is/As usable (e.g.
// errors.Is(err, os.ErrNotExist)).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Path returns the configured path, for logging and archiving.
func (l *Local) Path() string { return l.path }
