// Package store provides uniform access to the remote document store.
package store

// Fields is an opaque mapping of document field names to values.
type Fields map[string]interface{}

// Record represents a single document read from the store. The identifier
// and the two timestamps are server-assigned; everything else lives in Fields.
type Record struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
	UpdatedAt int64  `json:"updatedAt"` // epoch milliseconds
	Fields    Fields `json:"fields"`
}

// String returns a string field value, with ok=false when the field is
// absent or not a string.
func (r Record) String(field string) (string, bool) {
	v, ok := r.Fields[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns a numeric field value as float64. Integer types produced by
// BSON decoding are widened.
func (r Record) Float(field string) (float64, bool) {
	v, ok := r.Fields[field]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Map returns a nested document field value.
func (r Record) Map(field string) (map[string]interface{}, bool) {
	v, ok := r.Fields[field]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}

// Clone returns a copy of the record with its own Fields map, so cached
// snapshots cannot be mutated by callers.
func (r Record) Clone() Record {
	out := r
	out.Fields = make(Fields, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

// CloneRecords copies a result set.
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
