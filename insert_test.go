package jarr

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// applyPatch replays a truncate+write pair on an in-memory file image.
func applyPatch(file []byte, patch []byte, offset int64) []byte {
	return append(append([]byte{}, file[:offset]...), patch...)
}

// scanBytes runs the tail scanner over an in-memory file image.
func scanBytes(t *testing.T, file []byte) *tailScan {
	scan, err := scanTail(&FakeHandle{buffer: file})
	assert.NoError(t, err)
	return scan
}

func Test_innerElements(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"compact", `[1,2]`, `1,2`},
		{"empty", `[]`, ``},
		{"pretty", "[\n  1\n]", `1`},
		{"pretty_two", "[\n  1,\n  2\n]", "1,\n  2"},
		{"surrounded", " [1] ", `1`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, []byte(c.want), innerElements([]byte(c.in)))
		})
	}
}

func Test_needsComma(t *testing.T) {
	cases := []struct {
		name, tail string
		want       bool
	}{
		{"empty_array", `[]`, false},
		{"empty_with_inner_space", "[ \n ]", false},
		{"one_element", `[1]`, true},
		{"many_elements", `[1,2]`, true},
		{"pretty_tail", "{\"a\":1}\n]", true},
		{"window_mid_element", `2]`, true},
		{"no_bracket", `12`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, needsComma([]byte(c.tail)))
		})
	}
}

func Test_buildInsertion_Compact(t *testing.T) {
	t.Run("into_populated", func(t *testing.T) {
		file := []byte(`[1,2]`)
		patch, offset, err := buildInsertion([]any{3}, false, 0, scanBytes(t, file))
		assert.NoError(t, err)
		assert.Equal(t, int64(4), offset)
		assert.Equal(t, []byte(`,3]`), patch)
		assert.Equal(t, []byte(`[1,2,3]`), applyPatch(file, patch, offset))
	})
	t.Run("into_empty", func(t *testing.T) {
		file := []byte(`[]`)
		patch, offset, err := buildInsertion([]any{1}, false, 0, scanBytes(t, file))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), offset)
		assert.Equal(t, []byte(`1]`), patch)
		assert.Equal(t, []byte(`[1]`), applyPatch(file, patch, offset))
	})
	t.Run("batch_order", func(t *testing.T) {
		file := []byte(`[]`)
		patch, offset, err := buildInsertion([]any{1, 2, 3}, false, 0, scanBytes(t, file))
		assert.NoError(t, err)
		assert.Equal(t, []byte(`[1,2,3]`), applyPatch(file, patch, offset))
	})
}

func Test_buildInsertion_Pretty(t *testing.T) {
	t.Run("into_populated", func(t *testing.T) {
		one := map[string]int{"a": 1}
		two := map[string]int{"a": 2}
		file, err := json.MarshalIndent([]any{one}, "", "  ")
		assert.NoError(t, err)
		patch, offset, err := buildInsertion([]any{two}, true, 2, scanBytes(t, file))
		assert.NoError(t, err)
		want, err := json.MarshalIndent([]any{one, two}, "", "  ")
		assert.NoError(t, err)
		assert.Equal(t, want, applyPatch(file, patch, offset))
	})
	t.Run("swallows_whitespace_run", func(t *testing.T) {
		file := []byte("[\n  1\n\n\t ]")
		patch, offset, err := buildInsertion([]any{2}, true, 2, scanBytes(t, file))
		assert.NoError(t, err)
		assert.Equal(t, int64(5), offset) // right after "1"
		assert.Equal(t, []byte(",\n  2\n]"), patch)
	})
	t.Run("compact_mode_keeps_whitespace", func(t *testing.T) {
		file := []byte("[1\n]")
		patch, offset, err := buildInsertion([]any{2}, false, 0, scanBytes(t, file))
		assert.NoError(t, err)
		assert.Equal(t, int64(3), offset) // the bracket itself, newline kept
		assert.Equal(t, []byte(",2]"), patch)
	})
}

func Test_buildInsertion_Errors(t *testing.T) {
	t.Run("no_bracket", func(t *testing.T) {
		_, _, err := buildInsertion([]any{1}, false, 0, scanBytes(t, []byte("not an array")))
		assert.ErrorContains(t, err, _ERROR_MESSAGE_NO_BRACKET)
	})
	t.Run("empty_batch", func(t *testing.T) {
		_, _, err := buildInsertion(nil, false, 0, scanBytes(t, []byte("[]")))
		assert.ErrorContains(t, err, _ERROR_MESSAGE_EMPTY_BATCH)
	})
	t.Run("unserializable_entry", func(t *testing.T) {
		_, _, err := buildInsertion([]any{make(chan int)}, false, 0, scanBytes(t, []byte("[]")))
		assert.Error(t, err)
	})
}

func Test_buildInsertion_Fidelity(t *testing.T) {
	// appending one entry at a time must produce exactly the serializer's
	// one-pass output of the merged array, for every prefix
	entries := []any{
		map[string]int{"a": 1},
		"text",
		[]any{1.5, false},
		nil,
		map[string]any{"nested": map[string]string{"k": "v"}},
	}
	for _, pretty := range []bool{true, false} {
		for _, indent := range []int{2, 4} {
			if !pretty && indent != 2 {
				continue
			}
			name := fmt.Sprintf("pretty=%v_indent=%d", pretty, indent)
			t.Run(name, func(t *testing.T) {
				file, err := marshalBatch(entries[:1], pretty, indent)
				assert.NoError(t, err)
				for i := 1; i < len(entries); i++ {
					patch, offset, err := buildInsertion(entries[i:i+1], pretty, indent, scanBytes(t, file))
					assert.NoError(t, err)
					file = applyPatch(file, patch, offset)
					want, err := marshalBatch(entries[:i+1], pretty, indent)
					assert.NoError(t, err)
					assert.Equal(t, string(want), string(file), fmt.Sprintf("Fail on step %d", i))
				}
			})
		}
	}
}
