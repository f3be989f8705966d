// Package jarr appends entries to a file holding a single JSON array
// without reading or rewriting the whole file: each flush patches only a
// bounded suffix around the closing bracket, keeping the file valid JSON
// at every successful operation boundary. Provides a buffered writer safe
// for use from many goroutines with batching, threshold-triggered flushes
// and a one-way shutdown latch.
package jarr

import "os"

// Creates a buffered writer with default parameters: pretty printing with
// DEFAULT_INDENT, auto-initialization of an empty or absent file and a
// flush after every appended entry.
//
// Preferred usage example:
//
//	func main() {
//	    w, err := jarr.Init("events.json")
//	    ...
//	    defer w.Close()
//	    w.Append(event)
//	}
func Init(path string) (*Writer, error) {
	return InitWithParams(path, DefaultParams())
}

// InitWithParams constructs a writer with explicit settings. Validation
// happens here, once, before any I/O: an empty path, a negative threshold
// or a negative indent fail fast with a descriptive error.
//
// Assumes a single writer instance owns the file; no cross-process
// locking is provided.
func InitWithParams(path string, params Params) (*Writer, error) {
	if err := validateParams(path, &params); err != nil {
		return nil, err
	}
	if params.Open == nil {
		params.Open = openOSFile
	}
	w := &Writer{
		path:    path,
		params:  params,
		fallbck: os.Stderr,
		state:   normState(_STATE_IDLE),
	}
	return w, nil
}

// AppendToFile appends a single entry to the array file in one shot with
// default parameters. Thin convenience façade over a writer whose
// threshold is fixed at 1, so the entry is flushed before returning.
func AppendToFile(path string, entry any) error {
	return AppendToFileWithParams(path, entry, DefaultParams())
}

// AppendToFileWithParams is AppendToFile with explicit formatting and
// auto-initialization settings. Threshold and Silent are overridden: the
// flush is immediate and its error is always returned to the caller.
func AppendToFileWithParams(path string, entry any, params Params) error {
	params.Threshold = 1
	params.Silent = false
	w, err := InitWithParams(path, params)
	if err != nil {
		return err
	}
	return w.Append(entry)
}
