package source

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// maxLineBytes truncates pathological lines so one line cannot inflate a
// tail response
const maxLineBytes = 64 * 1024

// ClampLines bounds a requested line count: n <= 0 becomes def, n above
// max becomes max.
func ClampLines(n, def, max int) int {
	if max <= 0 {
		max = 5000
	}
	if def <= 0 || def > max {
		def = min(100, max)
	}
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// Tail returns the last n lines of path, most recent last. A missing file
// yields an empty slice. Memory is bounded by n regardless of file size.
func (r *Reader) Tail(path string, n int) Result[[]string] {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default([]string{})
		}
		r.fail(SourceLog, err, zap.String("path", path))
		return Default([]string{})
	}
	defer f.Close()

	lines, err := TailLines(f, n)
	if err != nil {
		r.fail(SourceLog, err, zap.String("path", path))
		return Default([]string{})
	}
	return Found(lines)
}

// TailLines streams rd through a ring buffer of n lines
func TailLines(rd io.Reader, n int) ([]string, error) {
	rb := NewRingBuffer(n)
	br := bufio.NewReaderSize(rd, 64*1024)
	var line strings.Builder
	for {
		chunk, err := br.ReadSlice('\n')
		if room := maxLineBytes - line.Len(); room > 0 {
			if len(chunk) > room {
				line.Write(chunk[:room])
			} else {
				line.Write(chunk)
			}
		}
		switch {
		case err == nil:
			rb.Push(strings.TrimRight(line.String(), "\r\n"))
			line.Reset()
		case errors.Is(err, bufio.ErrBufferFull):
			// keep reading the same long line
		case errors.Is(err, io.EOF):
			if line.Len() > 0 {
				rb.Push(strings.TrimRight(line.String(), "\r\n"))
			}
			return rb.Lines(), nil
		default:
			return nil, err
		}
	}
}
