package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLines(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero uses default", 0, 100},
		{"negative uses default", -5, 100},
		{"within bounds", 25, 25},
		{"at max", 5000, 5000},
		{"above max", 1 << 30, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLines(tt.n, 100, 5000))
		})
	}

	t.Run("invalid bounds fall back", func(t *testing.T) {
		assert.Equal(t, 100, ClampLines(0, 0, 0))
		assert.Equal(t, 10, ClampLines(0, 50, 10))
	})
}

func TestTailLines(t *testing.T) {
	t.Run("returns last n lines oldest first", func(t *testing.T) {
		var b strings.Builder
		for i := 1; i <= 10; i++ {
			fmt.Fprintf(&b, "line %d\n", i)
		}
		lines, err := TailLines(strings.NewReader(b.String()), 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"line 8", "line 9", "line 10"}, lines)
	})

	t.Run("fewer lines than requested", func(t *testing.T) {
		lines, err := TailLines(strings.NewReader("a\nb\n"), 50)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, lines)
	})

	t.Run("last line without newline", func(t *testing.T) {
		lines, err := TailLines(strings.NewReader("a\r\nb"), 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, lines)
	})

	t.Run("empty input", func(t *testing.T) {
		lines, err := TailLines(strings.NewReader(""), 5)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("truncates very long lines", func(t *testing.T) {
		long := strings.Repeat("x", 200*1024)
		lines, err := TailLines(strings.NewReader(long+"\nshort\n"), 5)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Len(t, lines[0], maxLineBytes)
		assert.Equal(t, "short", lines[1])
	})
}

func TestTail(t *testing.T) {
	t.Run("missing file yields empty slice", func(t *testing.T) {
		r, logs := newObservedReader(nil)
		res := r.Tail(filepath.Join(t.TempDir(), "activity.log"), 10)
		assert.False(t, res.OK)
		assert.NotNil(t, res.Value)
		assert.Empty(t, res.Value)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("reads file tail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "activity.log")
		require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

		r, _ := newObservedReader(nil)
		res := r.Tail(path, 2)
		require.True(t, res.OK)
		assert.Equal(t, []string{"two", "three"}, res.Value)
	})

	t.Run("directory path is logged and defaults", func(t *testing.T) {
		r, logs := newObservedReader(nil)
		res := r.Tail(t.TempDir(), 2)
		assert.False(t, res.OK)
		assert.Empty(t, res.Value)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestRingBuffer(t *testing.T) {
	t.Run("uses default size for zero", func(t *testing.T) {
		rb := NewRingBuffer(0)
		for i := 0; i < 150; i++ {
			rb.Push("test")
		}
		assert.Equal(t, 100, rb.Count())
	})

	t.Run("wraps around when full", func(t *testing.T) {
		rb := NewRingBuffer(3)
		for _, s := range []string{"1", "2", "3", "4"} {
			rb.Push(s)
		}
		assert.Equal(t, 3, rb.Count())
		assert.Equal(t, []string{"2", "3", "4"}, rb.Lines())
	})
}
