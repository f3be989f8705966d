package jarr

/*
Tail scanner.

Reads a bounded trailing window from the target file and locates the
array's closing bracket inside it. Leaf component of the flush cycle:
no knowledge of pending entries or formatting, no retries — read/stat
errors propagate to the caller as-is.
*/

import (
	"bytes"
	"errors"
	"io"
)

// tailScan is the transient per-flush result of scanning the file end.
type tailScan struct {
	size    int64  // total file length at scan time
	start   int64  // absolute offset the window was read from
	window  []byte // up to DEFAULT_TAIL_WINDOW trailing bytes (whole file if smaller)
	trimmed []byte // window with surrounding whitespace stripped
	bracket int    // index of the last ']' within window, -1 when absent
}

// hasBracket reports whether the closing bracket was located in the window.
func (s *tailScan) hasBracket() bool {
	return s.bracket >= 0
}

// scanTail stats the handle, reads at most DEFAULT_TAIL_WINDOW trailing
// bytes and locates the last ']' in them. An empty or whitespace-only file
// yields an empty trimmed window and bracket == -1; that is a result, not
// an error.
func scanTail(fh FileHandle) (*tailScan, error) {
	size, err := fh.Size()
	if err != nil {
		return nil, err
	}
	scan := &tailScan{size: size, bracket: -1}
	wlen := size
	if wlen > DEFAULT_TAIL_WINDOW {
		wlen = DEFAULT_TAIL_WINDOW
	}
	if wlen == 0 {
		return scan, nil
	}
	scan.start = size - wlen
	scan.window = make([]byte, wlen)
	n, err := fh.ReadAt(scan.window, scan.start)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == wlen) {
		// a full read at end-of-file may legally report io.EOF
		return nil, err
	}
	scan.trimmed = bytes.TrimSpace(scan.window)
	scan.bracket = bytes.LastIndexByte(scan.window, ']')
	return scan, nil
}
