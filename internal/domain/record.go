package domain

import (
	"fmt"
	"time"
)

// Record is a flattened insurance-application record: a single-level mapping
// of field name to scalar value (string, number, boolean, or nil). A Record is
// never mutated in place; each transformation stage produces a new one.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are scalars, so a
// shallow copy is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Flatten converts a nested FAST UI document into a Record by joining section
// and field names with an underscore (e.g. "applicant" + "first_name" ->
// "applicant_first_name"). Array sections are flattened with 1-based indexed
// keys ("beneficiary_1_name") plus a "<section>_count" field. Top-level
// scalars pass through unchanged.
func Flatten(nested map[string]any) Record {
	flat := make(Record)
	for section, value := range nested {
		switch v := value.(type) {
		case map[string]any:
			for field, fieldValue := range v {
				flat[section+"_"+field] = fieldValue
			}
		case []any:
			for i, item := range v {
				if m, ok := item.(map[string]any); ok {
					for field, fieldValue := range m {
						flat[fmt.Sprintf("%s_%d_%s", section, i+1, field)] = fieldValue
					}
				} else {
					flat[fmt.Sprintf("%s_%d", section, i+1)] = item
				}
			}
			flat[section+"_count"] = len(v)
		default:
			flat[section] = value
		}
	}
	return flat
}

// StoredRecord is a Record as persisted in the record store, together with
// its storage metadata.
type StoredRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ProductType string    `json:"product_type"`
	SessionID   string    `json:"session_id"`
	Fingerprint string    `json:"fingerprint"`
	Data        Record    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}
