package domain

// DataType is the target type of a type-conversion transformation.
type DataType string

const (
	DataTypeInt    DataType = "int"
	DataTypeFloat  DataType = "float"
	DataTypeString DataType = "str"
	DataTypeBool   DataType = "bool"
)

// Valid reports whether the data type is one the engine knows how to convert.
func (d DataType) Valid() bool {
	switch d {
	case DataTypeInt, DataTypeFloat, DataTypeString, DataTypeBool:
		return true
	}
	return false
}

// Operator identifies a condition comparison operator.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNe    Operator = "ne"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
)

// Valid reports whether the operator is recognized.
func (o Operator) Valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn:
		return true
	}
	return false
}

// Condition is a single conditional override. Conditions are evaluated in
// list order against the field value after conversion, value mapping and
// scaling; the first match wins.
type Condition struct {
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value" yaml:"value"`
	Result   any      `json:"result" yaml:"result"`
}

// FieldRule describes the transformations of a complex mapping. All
// attributes are optional and applied in the fixed order: type conversion,
// value mapping, scaling, conditions.
type FieldRule struct {
	DataType     DataType       `json:"data_type,omitempty" yaml:"data_type"`
	ValueMapping map[string]any `json:"value_mapping,omitempty" yaml:"value_mapping"`
	ScaleFactor  *float64       `json:"scale_factor,omitempty" yaml:"scale_factor"`
	Conditions   []Condition    `json:"conditions,omitempty" yaml:"conditions"`
}

// FieldMapping binds one source field to one target field. A nil Rule means a
// simple rename; a non-nil Rule is a complex mapping whose transformations run
// before the value is written under Target.
type FieldMapping struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Rule   *FieldRule `json:"rule,omitempty"`
}

// Simple reports whether this is a plain rename with no transformations.
func (m FieldMapping) Simple() bool {
	return m.Rule == nil
}

// MappingSpec is the resolved mapping specification for one product type.
// It is read-only to the engine; each source field maps to exactly one target.
type MappingSpec struct {
	ProductType string
	Fields      []FieldMapping
}

// MappingSummaryField describes one field entry in a MappingSummary.
type MappingSummaryField struct {
	SourceField     string   `json:"source_field"`
	TargetField     string   `json:"target_field"`
	Type            string   `json:"type"` // "simple" or "complex"
	Transformations []string `json:"transformations,omitempty"`
}

// MappingSummary is the diagnostic overview of a mapping specification.
type MappingSummary struct {
	ProductType     string                `json:"product_type"`
	TotalMappings   int                   `json:"total_mappings"`
	SimpleMappings  int                   `json:"simple_mappings"`
	ComplexMappings int                   `json:"complex_mappings"`
	Fields          []MappingSummaryField `json:"fields"`
}
