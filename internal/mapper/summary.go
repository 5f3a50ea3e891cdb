package mapper

import "aim/internal/domain"

// Summary builds a diagnostic overview of a mapping specification: counts of
// simple versus complex mappings and, per field, the target name and the
// transformation attributes present. It reads the spec only.
func (e *Engine) Summary(spec *domain.MappingSpec) *domain.MappingSummary {
	if spec == nil {
		return &domain.MappingSummary{Fields: []domain.MappingSummaryField{}}
	}
	summary := &domain.MappingSummary{
		ProductType:   spec.ProductType,
		TotalMappings: len(spec.Fields),
		Fields:        make([]domain.MappingSummaryField, 0, len(spec.Fields)),
	}

	for _, m := range spec.Fields {
		target := m.Target
		if target == "" {
			target = m.Source
		}
		field := domain.MappingSummaryField{
			SourceField: m.Source,
			TargetField: target,
		}
		if m.Simple() {
			summary.SimpleMappings++
			field.Type = "simple"
		} else {
			summary.ComplexMappings++
			field.Type = "complex"
			field.Transformations = ruleTransformations(m.Rule)
		}
		summary.Fields = append(summary.Fields, field)
	}
	return summary
}

func ruleTransformations(rule *domain.FieldRule) []string {
	var names []string
	if rule.DataType != "" {
		names = append(names, "data_type")
	}
	if len(rule.ValueMapping) > 0 {
		names = append(names, "value_mapping")
	}
	if rule.ScaleFactor != nil {
		names = append(names, "scale_factor")
	}
	if len(rule.Conditions) > 0 {
		names = append(names, "conditions")
	}
	return names
}
