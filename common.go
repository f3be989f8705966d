package jarr

/*
Defines the core data types used by the appender:
  - basetype and a small set of typed aliases for clarity
  - Params: immutable writer configuration validated at construction
  - wrState enum for the flush state machine and its bounds
  - package-wide constants and normalization/validation helpers

Also defines the error message texts shared with tests.
*/

import (
	"errors"
	"strings"
)

type basetype byte // basetype is the underlying byte-sized representation used for enums

type wrState basetype // Buffered writer flush states (alias for byte)

const (
	// Writer flush lifecycle states. The trailing _STATE_MAX_for_checks_only
	// is used as an exclusive upper bound for normalization checks. The
	// shutdown latch is tracked separately and can be set in any state.
	_STATE_UNKNOWN wrState = iota
	_STATE_IDLE
	_STATE_FLUSHING
	_STATE_MAX_for_checks_only
)

const (
	// Default values for short init forms
	DEFAULT_INDENT      = 2  // indentation width used when pretty printing
	DEFAULT_THRESHOLD   = 1  // flush after every appended entry
	DEFAULT_TAIL_WINDOW = 50 // max bytes read from the file end to find ']'

	// THRESHOLD_UNBOUNDED disables threshold-triggered flushes: entries
	// accumulate until an explicit Flush or Close call.
	THRESHOLD_UNBOUNDED = 0
)

const (
	// Error messages used across appender operations (used for testing).
	_ERROR_MESSAGE_EMPTY_PATH    = "file path is empty"
	_ERROR_MESSAGE_BAD_THRESHOLD = "flush threshold must be positive or THRESHOLD_UNBOUNDED"
	_ERROR_MESSAGE_BAD_INDENT    = "indent must be a non-negative integer"
	_ERROR_MESSAGE_NO_BRACKET    = "no closing bracket found: file is not a JSON array"
	_ERROR_MESSAGE_FILE_MISSING  = "array file does not exist and auto-init is disabled"
	_ERROR_MESSAGE_EMPTY_BATCH   = "empty batch: nothing to insert"
)

// Params holds the immutable configuration of a Writer. Validated once by
// InitWithParams; the writer never mutates it afterwards.
type Params struct {
	Pretty    bool     // insert newlines and indentation between elements
	Indent    int      // indentation width, meaningful only when Pretty is set
	AutoInit  bool     // create/initialize a fresh []-rooted file when empty or absent
	Threshold int      // pending entries count triggering an automatic flush (THRESHOLD_UNBOUNDED to disable)
	Silent    bool     // route threshold-triggered flush errors to the fallback writer instead of the Append caller
	Open      OpenFunc // file-handle opening capability (nil selects the os-backed opener)
}

// DefaultParams returns the configuration used by the short Init form:
// pretty printing with DEFAULT_INDENT, auto-initialization enabled and a
// flush after every appended entry.
func DefaultParams() Params {
	return Params{
		Pretty:    true,
		Indent:    DEFAULT_INDENT,
		AutoInit:  true,
		Threshold: DEFAULT_THRESHOLD,
	}
}

// validateParams checks path and Params invariants. It is called once at
// construction; no I/O is attempted when validation fails.
func validateParams(path string, p *Params) error {
	if len(strings.TrimSpace(path)) == 0 {
		return errors.New(_ERROR_MESSAGE_EMPTY_PATH)
	}
	if p.Threshold < 0 {
		return errors.New(_ERROR_MESSAGE_BAD_THRESHOLD)
	}
	if p.Indent < 0 {
		return errors.New(_ERROR_MESSAGE_BAD_INDENT)
	}
	return nil
}

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	} else {
		return def
	}
}

// Ensures a provided wrState is within the valid range
func normState(state wrState) wrState {
	return norm_byte(state, _STATE_MAX_for_checks_only, _STATE_UNKNOWN)
}

// indentPrefix returns n spaces (the per-level prefix a standard pretty
// serializer emits with that indent width).
func indentPrefix(n int) []byte {
	if n <= 0 {
		return nil
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return b
}

// isJSONSpace reports whether c is one of the four insignificant
// whitespace bytes the JSON grammar allows between tokens.
func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
