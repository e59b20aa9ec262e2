package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplaySummary_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"short string", "hello", `"hello"`},
		{"number literal", json.Number("1.500"), "1.500"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
		{"null", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRoot(tt.value).DisplaySummary())
		})
	}
}

func TestDisplaySummary_LongStringTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)

	got := NewRoot(long).DisplaySummary()

	assert.Equal(t, `"`+strings.Repeat("x", 97)+`..."`, got)

	// Exactly at the threshold: untouched.
	exact := strings.Repeat("y", 100)
	assert.Equal(t, `"`+exact+`"`, NewRoot(exact).DisplaySummary())
}

func TestDisplaySummary_TruncationCountsRunes(t *testing.T) {
	long := strings.Repeat("ü", 150)

	got := NewRoot(long).DisplaySummary()

	assert.Equal(t, `"`+strings.Repeat("ü", 97)+`..."`, got)
}

func TestDisplaySummary_ContainersUseCachedCount(t *testing.T) {
	obj := NewRoot(map[string]any{"a": 1, "b": 2, "c": 3})
	arr := NewRoot([]any{1, 2})

	// Correct before any child is materialised.
	assert.Equal(t, "{3 properties}", obj.DisplaySummary())
	assert.Equal(t, "[2 items]", arr.DisplaySummary())
	assert.Equal(t, 0, obj.MaterializedCount())
}

func TestDisplaySummary_ClearedValue(t *testing.T) {
	n := NewRoot("some text")
	n.ClearValue()

	assert.Equal(t, "(unavailable)", n.DisplaySummary())

	// Containers still summarise from cached counts after clearing.
	c := NewRoot([]any{1, 2, 3})
	c.ClearValue()
	assert.Equal(t, "[3 items]", c.DisplaySummary())
}

func TestCopyableValue(t *testing.T) {
	long := strings.Repeat("x", 150)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string is raw and untruncated", long, long},
		{"number literal", json.Number("0.100"), "0.100"},
		{"bool", false, "false"},
		{"null", nil, "null"},
		{"object falls back to summary", map[string]any{"a": 1}, "{1 properties}"},
		{"array falls back to summary", []any{1, 2}, "[2 items]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRoot(tt.value).CopyableValue())
		})
	}
}

func TestCopyableValue_ClearedValue(t *testing.T) {
	n := NewRoot("secret")
	n.ClearValue()

	assert.Equal(t, "", n.CopyableValue())
}
