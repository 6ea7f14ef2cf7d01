package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/domain"
)

// Alerts reads the alerts document. Each severity is decoded on its own so
// a malformed bucket only empties that bucket. Total is always recomputed.
func (r *Reader) Alerts(path string) Result[domain.AlertSummary] {
	doc, ok := r.readDocument(SourceAlerts, path)
	if !ok {
		return Default(domain.NewAlertSummary(nil, nil, nil, nil))
	}
	dec := bucketDecoder[domain.Alert]{r: r, source: SourceAlerts, path: path, fromString: alertFromString}
	return Found(domain.NewAlertSummary(
		dec.decode(doc, string(domain.SeverityCritical)),
		dec.decode(doc, string(domain.SeverityHigh)),
		dec.decode(doc, string(domain.SeverityMedium)),
		dec.decode(doc, string(domain.SeverityInfo)),
	))
}

// Recommendations reads the recommendations document
func (r *Reader) Recommendations(path string) Result[domain.RecommendationSet] {
	doc, ok := r.readDocument(SourceRecommendations, path)
	if !ok {
		return Default(domain.NewRecommendationSet(nil, nil, nil, nil))
	}
	dec := bucketDecoder[domain.Recommendation]{r: r, source: SourceRecommendations, path: path, fromString: recommendationFromString}
	return Found(domain.NewRecommendationSet(
		dec.decode(doc, "critical"),
		dec.decode(doc, "high"),
		dec.decode(doc, "medium"),
		dec.decode(doc, "optimizations"),
	))
}

// MonitoredApps reads the apps: mapping of the monitored apps YAML file
func (r *Reader) MonitoredApps(path string) Result[domain.MonitoredApps] {
	var doc struct {
		Apps map[string]any `yaml:"apps"`
	}
	res := ReadYAML(r, SourceApps, path, doc)
	apps := domain.MonitoredApps{}
	for name, app := range res.Value.Apps {
		apps[name] = jsonSafe(app)
	}
	return Result[domain.MonitoredApps]{Value: apps, OK: res.OK}
}

// Report reads the latest report and renders it to HTML. The timestamp is
// the file's modification time, or nil when there is no report.
func (r *Reader) Report(path string) Result[domain.ReportDocument] {
	text := r.ReadText(SourceReport, path, domain.DefaultReportMarkdown)
	doc := domain.ReportDocument{Markdown: text.Value}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text.Value), &buf); err != nil {
		r.fail(SourceReport, fmt.Errorf("render markdown: %w", err), zap.String("path", path))
	} else {
		doc.HTML = buf.String()
	}

	if text.OK {
		if info, err := os.Stat(path); err == nil {
			mod := info.ModTime()
			doc.Timestamp = &mod
		}
	}
	return Result[domain.ReportDocument]{Value: doc, OK: text.OK}
}

// readDocument loads a JSON object document for gjson queries
func (r *Reader) readDocument(source, path string) (gjson.Result, bool) {
	b, ok := r.readFile(source, path)
	if !ok {
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(b) {
		r.fail(source, errors.New("invalid JSON"), zap.String("path", path))
		return gjson.Result{}, false
	}
	doc := gjson.ParseBytes(b)
	if !doc.IsObject() {
		r.fail(source, fmt.Errorf("expected a JSON object, got %s", doc.Type), zap.String("path", path))
		return gjson.Result{}, false
	}
	return doc, true
}

// bucketDecoder turns one severity array into typed records. Plain string
// elements become records via fromString; other malformed elements are
// skipped and logged.
type bucketDecoder[T any] struct {
	r          *Reader
	source     string
	path       string
	fromString func(string) T
}

func (d bucketDecoder[T]) decode(doc gjson.Result, key string) []T {
	res := doc.Get(key)
	if !res.Exists() || res.Type == gjson.Null {
		return nil
	}
	if !res.IsArray() {
		d.r.fail(d.source, fmt.Errorf("%q is not an array", key), zap.String("path", d.path))
		return nil
	}
	var out []T
	for i, el := range res.Array() {
		switch {
		case el.Type == gjson.String:
			out = append(out, d.fromString(el.String()))
		case el.IsObject():
			var v T
			if err := json.Unmarshal([]byte(el.Raw), &v); err != nil {
				d.r.fail(d.source, fmt.Errorf("%s[%d]: %w", key, i, err), zap.String("path", d.path))
				continue
			}
			out = append(out, v)
		default:
			d.r.fail(d.source, fmt.Errorf("%s[%d]: unsupported %s element", key, i, el.Type), zap.String("path", d.path))
		}
	}
	return out
}

func alertFromString(s string) domain.Alert {
	return domain.Alert{Message: s}
}

func recommendationFromString(s string) domain.Recommendation {
	return domain.Recommendation{Title: s}
}

// jsonSafe converts YAML maps with non-string keys so the value can be
// encoded as JSON
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = jsonSafe(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonSafe(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = jsonSafe(val)
		}
		return out
	default:
		return v
	}
}
