package record

// Record is a single open-schema document.
type Record map[string]any

// Query is a flat equality predicate over record fields.
type Query map[string]any

// IsEmpty reports whether the query has no fields.
func (q Query) IsEmpty() bool {
	return len(q) == 0
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// Apply overwrites every field of patch onto the record. Fields not yet present
// are added. The patch values are copied so that records never share nested values.
func (r Record) Apply(patch Record) {
	for k, v := range patch {
		r[k] = CloneValue(v)
	}
}

// CloneValue returns a deep copy of a JSON value.
// Scalars are returned as they are.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = CloneValue(e)
		}
		return out
	case Record:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// CloneAll deep copies a sequence of records. The result is never nil.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
