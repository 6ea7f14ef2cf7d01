package domain

import "encoding/json"

// Records written by the maintenance jobs are loosely shaped. Known keys
// map onto struct fields; any other key round-trips through Extra at the
// top level of the encoded object.

func (a *Alert) UnmarshalJSON(b []byte) error {
	fields, extra, err := splitRecord(b, "title", "message", "source", "timestamp")
	if err != nil {
		return err
	}
	*a = Alert{
		Title:     fields["title"],
		Message:   fields["message"],
		Source:    fields["source"],
		Timestamp: fields["timestamp"],
		Extra:     extra,
	}
	return nil
}

func (a Alert) MarshalJSON() ([]byte, error) {
	return joinRecord(a.Extra, map[string]string{
		"title":     a.Title,
		"message":   a.Message,
		"source":    a.Source,
		"timestamp": a.Timestamp,
	})
}

func (r *Recommendation) UnmarshalJSON(b []byte) error {
	fields, extra, err := splitRecord(b, "title", "description", "action", "impact")
	if err != nil {
		return err
	}
	*r = Recommendation{
		Title:       fields["title"],
		Description: fields["description"],
		Action:      fields["action"],
		Impact:      fields["impact"],
		Extra:       extra,
	}
	return nil
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	return joinRecord(r.Extra, map[string]string{
		"title":       r.Title,
		"description": r.Description,
		"action":      r.Action,
		"impact":      r.Impact,
	})
}

// splitRecord decodes an object, pulling string values for the known keys.
// A known key holding a non-string value stays in extra untouched.
func splitRecord(b []byte, known ...string) (map[string]string, map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, nil, err
	}
	fields := make(map[string]string, len(known))
	for _, k := range known {
		if s, ok := raw[k].(string); ok {
			fields[k] = s
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}
	return fields, raw, nil
}

func joinRecord(extra map[string]any, fields map[string]string) ([]byte, error) {
	out := make(map[string]any, len(extra)+len(fields))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range fields {
		if v != "" {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
