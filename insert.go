package jarr

/*
Insertion builder.

Pure text/offset computation: given the pending batch, the formatting
settings and a tail scan, produces the exact patch bytes and the absolute
truncate offset that re-form the array tail. Performs no I/O.

The batch is serialized through the standard serializer as a whole JSON
array and the outer brackets are stripped off, so element formatting
(including nested indentation) is exactly what the serializer would emit —
the builder never reimplements indentation rules.
*/

import (
	"bytes"
	"encoding/json"
	"errors"
)

// marshalBatch serializes the batch as a complete JSON array with the
// configured formatting. Also used as-is for the fresh-array code path.
func marshalBatch(batch []any, pretty bool, indent int) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(batch, "", string(indentPrefix(indent)))
	}
	return json.Marshal(batch)
}

// innerElements strips exactly the outer '[' and ']' (and the whitespace
// around them) from a serialized array, leaving the element text.
func innerElements(arrayText []byte) []byte {
	inner := bytes.TrimSpace(arrayText)
	if len(inner) >= 2 && inner[0] == '[' && inner[len(inner)-1] == ']' {
		inner = inner[1 : len(inner)-1]
	}
	return bytes.TrimSpace(inner)
}

// needsComma reports whether a separating comma must precede the new
// elements: true iff the trimmed existing tail ends in a non-whitespace,
// non-'[' character followed by the closing bracket, i.e. the array
// already holds at least one element. Handles both "[1,2]" and "[]".
func needsComma(trimmed []byte) bool {
	last := bytes.LastIndexByte(trimmed, ']')
	if last < 0 {
		return false
	}
	for i := last - 1; i >= 0; i-- {
		if isJSONSpace(trimmed[i]) {
			continue
		}
		return trimmed[i] != '['
	}
	return false
}

// buildInsertion computes the patch for a located closing bracket: the
// truncate offset where the old bracket (and, when pretty, the whitespace
// run before it) begins, and the text that replaces everything from that
// offset to end-of-file. The result re-parsed equals the previous array
// with the batch appended in order; bytes before the offset are untouched.
func buildInsertion(batch []any, pretty bool, indent int, scan *tailScan) (patch []byte, offset int64, err error) {
	if len(batch) == 0 {
		return nil, 0, errors.New(_ERROR_MESSAGE_EMPTY_BATCH)
	}
	if !scan.hasBracket() {
		return nil, 0, errors.New(_ERROR_MESSAGE_NO_BRACKET)
	}
	arrayText, err := marshalBatch(batch, pretty, indent)
	if err != nil {
		return nil, 0, err
	}
	inner := innerElements(arrayText)

	var buf bytes.Buffer
	buf.Grow(len(inner) + indent + 4)
	if needsComma(scan.trimmed) {
		buf.WriteByte(',')
	}
	if pretty {
		buf.WriteByte('\n')
		buf.Write(indentPrefix(indent))
	}
	buf.Write(inner)
	if pretty {
		buf.WriteByte('\n')
	}
	buf.WriteByte(']')

	offset = scan.start + int64(scan.bracket)
	if pretty {
		// swallow the whitespace run before the old bracket so the rebuilt
		// tail carries exactly one serializer-shaped newline
		for i := scan.bracket - 1; i >= 0 && isJSONSpace(scan.window[i]); i-- {
			offset--
		}
	}
	return buf.Bytes(), offset, nil
}
