package domain

// FieldStatus classifies a single field in a comparison report.
type FieldStatus string

const (
	StatusMatched    FieldStatus = "matched"
	StatusMismatched FieldStatus = "mismatched"
	StatusMissing    FieldStatus = "missing"
)

// CalculatorField declares one field an actuarial calculator expects.
// Expected is optional; when present the stored value must equal it for the
// field to count as matched.
type CalculatorField struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type,omitempty" yaml:"type"`
	Required bool   `json:"required,omitempty" yaml:"required"`
	Expected any    `json:"expected,omitempty" yaml:"expected"`
}

// CalculatorSchema is the ordered field set a calculator declares for one
// product type.
type CalculatorSchema struct {
	ProductType string            `json:"product_type"`
	Fields      []CalculatorField `json:"fields"`
}

// FieldVerdict is the per-field outcome of a comparison.
type FieldVerdict struct {
	FieldName     string      `json:"field_name"`
	Status        FieldStatus `json:"status"`
	StoredValue   any         `json:"stored_value,omitempty"`
	ExpectedValue any         `json:"expected_value,omitempty"`
	Required      bool        `json:"required,omitempty"`
}

// ComparisonStats aggregates a comparison report.
type ComparisonStats struct {
	TotalFields          int     `json:"total_fields"`
	MatchingFields       int     `json:"matching_fields"`
	MissingFields        int     `json:"missing_fields"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ComparisonReport is the result of evaluating a stored record against a
// calculator schema: one verdict per expected field, in schema order, plus
// aggregate stats.
type ComparisonReport struct {
	ProductType string          `json:"product_type"`
	Stats       ComparisonStats `json:"stats"`
	Fields      []FieldVerdict  `json:"fields"`
}

// IngestWarning records a field that degraded during mapping of one record.
type IngestWarning struct {
	RecordName string `json:"record_name"`
	Field      string `json:"field"`
	Reason     string `json:"reason"`
}

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	SessionID     string          `json:"session_id"`
	ProductType   string          `json:"product_type"`
	TotalRecords  int             `json:"total_records"`
	StoredRecords int             `json:"stored_records"`
	Duplicates    int             `json:"duplicates"`
	Warnings      []IngestWarning `json:"warnings"`
	StoredIDs     []int64         `json:"stored_ids"`
}

// StoreStats reports the contents of the record store.
type StoreStats struct {
	TotalRecords  int            `json:"total_records"`
	ProductCounts map[string]int `json:"product_counts"`
}
