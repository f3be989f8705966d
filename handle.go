package jarr

/*
File-handle capability boundary.

The writer never touches the filesystem directly: it consumes the minimal
FileHandle interface below and obtains handles through an OpenFunc. The
os-backed implementations here are the default; tests substitute fakes to
count mutations and to inject failures.
*/

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileHandle is the minimal capability the flush cycle needs from an open
// file. Every handle obtained for a cycle is closed on all exit paths.
type FileHandle interface {
	// Size returns the current file length in bytes.
	Size() (int64, error)
	// ReadAt reads len(p) bytes starting at the absolute offset off.
	ReadAt(p []byte, off int64) (int, error)
	// WriteAt writes p starting at the absolute offset off.
	WriteAt(p []byte, off int64) (int, error)
	// Truncate shortens (or extends) the file to exactly size bytes.
	Truncate(size int64) error
	// Close releases the handle.
	Close() error
}

// OpenFunc opens the target file for one flush cycle. When create is set
// the file is created if absent; otherwise a missing file must fail with
// an error satisfying errors.Is(err, fs.ErrNotExist).
type OpenFunc func(path string, create bool) (FileHandle, error)

// osHandle adapts *os.File to the FileHandle capability.
type osHandle struct {
	f *os.File
}

func (h *osHandle) Size() (int64, error) {
	info, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (h *osHandle) ReadAt(p []byte, off int64) (int, error)  { return h.f.ReadAt(p, off) }
func (h *osHandle) WriteAt(p []byte, off int64) (int, error) { return h.f.WriteAt(p, off) }
func (h *osHandle) Truncate(size int64) error                { return h.f.Truncate(size) }
func (h *osHandle) Close() error                             { return h.f.Close() }

// openOSFile is the default OpenFunc. With create it uses a create-or-open
// read/write mode; without it the file must pre-exist and a missing file
// is reported as a distinct not-found error (not a generic I/O failure).
func openOSFile(path string, create bool) (FileHandle, error) {
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if !create && errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(_ERROR_MESSAGE_FILE_MISSING+": %w", err)
		}
		return nil, err
	}
	return &osHandle{f: f}, nil
}
