package source

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// readFile returns the file contents. A missing file is expected before
// the first job run and is logged at debug; other errors count as a
// fallback for source.
func (r *Reader) readFile(source, path string) ([]byte, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Debug("source file missing, using default", zap.String("source", source), zap.String("path", path))
			r.metrics.Fallback(source)
			return nil, false
		}
		r.fail(source, err, zap.String("path", path))
		return nil, false
	}
	return b, true
}

// ReadText returns the file contents or def
func (r *Reader) ReadText(source, path, def string) Result[string] {
	b, ok := r.readFile(source, path)
	if !ok {
		return Default(def)
	}
	return Found(string(b))
}

// ReadJSON decodes a JSON file into a T, or returns def
func ReadJSON[T any](r *Reader, source, path string, def T) Result[T] {
	b, ok := r.readFile(source, path)
	if !ok {
		return Default(def)
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		r.fail(source, err, zap.String("path", path))
		return Default(def)
	}
	return Found(v)
}

// ReadYAML decodes a YAML file into a T, or returns def
func ReadYAML[T any](r *Reader, source, path string, def T) Result[T] {
	b, ok := r.readFile(source, path)
	if !ok {
		return Default(def)
	}
	var v T
	if err := yaml.Unmarshal(b, &v); err != nil {
		r.fail(source, err, zap.String("path", path))
		return Default(def)
	}
	return Found(v)
}
