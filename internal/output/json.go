package output

import (
	"encoding/json"
	"io"
)

// JSONWriter writes one JSON document per line
type JSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONWriter creates a writer that leaves HTML characters unescaped so
// rendered report HTML stays readable on the terminal.
func NewJSONWriter(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONWriter{
		w:       w,
		encoder: enc,
	}
}

// Write encodes v as a single line
func (w *JSONWriter) Write(v any) error {
	return w.encoder.Encode(v)
}

// ErrorOutput is the machine-readable failure emitted in json format
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

// WriteError writes a structured error
func (w *JSONWriter) WriteError(code, message string) error {
	return w.encoder.Encode(&ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	})
}
