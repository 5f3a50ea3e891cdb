// Package mapper implements the field mapping engine: it applies a mapping
// specification to a flattened record, renaming fields and transforming
// values per the specification's rules. Field-level problems degrade to
// warnings; the engine only fails outright when no usable specification is
// supplied.
package mapper

import (
	"go.uber.org/zap"

	"aim/internal/domain"
)

// Warning describes a field whose transformation degraded. The field keeps
// its pre-failure value in the mapped output.
type Warning struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Result is the outcome of one mapping pass: the mapped record plus every
// field-level warning accumulated along the way.
type Result struct {
	Mapped   domain.Record `json:"mapped"`
	Warnings []Warning     `json:"warnings,omitempty"`
}

// Engine maps records according to an injected mapping specification. It
// holds no mutable state between calls.
type Engine struct {
	logger *zap.Logger
}

// New creates an engine. A nil logger disables logging.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// MapFields applies the mapping specification to a flattened record.
//
// For every source field declared in the spec and present in the record, the
// field's rule is resolved into a target name and transformed value. Spec
// fields absent from the record are skipped; record fields absent from the
// spec are dropped. A complex rule without a target field writes under the
// source field name.
func (e *Engine) MapFields(spec *domain.MappingSpec, rec domain.Record) (*Result, error) {
	if spec == nil || len(spec.Fields) == 0 {
		product := ""
		if spec != nil {
			product = spec.ProductType
		}
		return nil, &domain.MappingError{ProductType: product, Err: domain.ErrSpecNotFound}
	}

	res := &Result{Mapped: make(domain.Record, len(spec.Fields))}
	for _, m := range spec.Fields {
		value, ok := rec[m.Source]
		if !ok {
			continue
		}

		mapped, reasons := e.mapFieldValue(value, m.Rule)
		for _, reason := range reasons {
			e.logger.Warn("field transformation degraded",
				zap.String("field", m.Source),
				zap.String("reason", reason))
			res.Warnings = append(res.Warnings, Warning{Field: m.Source, Reason: reason})
		}

		target := m.Target
		if target == "" {
			target = m.Source
		}
		res.Mapped[target] = mapped
	}

	e.logger.Info("mapped fields",
		zap.String("product_type", spec.ProductType),
		zap.Int("mapped_fields", len(res.Mapped)),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

// mapFieldValue runs the transformation pipeline for one field. Stages run
// in fixed order, each on the output of the previous: type conversion, value
// mapping, scaling, conditions.
func (e *Engine) mapFieldValue(value any, rule *domain.FieldRule) (any, []string) {
	if rule == nil {
		return value, nil
	}

	var reasons []string
	mapped := value

	if rule.DataType != "" {
		converted, reason := convertDataType(mapped, rule.DataType)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		mapped = converted
	}

	if len(rule.ValueMapping) > 0 {
		if replacement, ok := rule.ValueMapping[valueString(mapped)]; ok {
			mapped = replacement
		}
	}

	if rule.ScaleFactor != nil {
		if f, ok := toFloat(mapped); ok {
			mapped = f * *rule.ScaleFactor
		}
	}

	if len(rule.Conditions) > 0 {
		result, condReasons := applyConditions(mapped, rule.Conditions)
		reasons = append(reasons, condReasons...)
		mapped = result
	}

	return mapped, reasons
}

// applyConditions evaluates conditions in order; the first match wins and
// its result replaces the value. A condition with an unknown operator is
// recorded and skipped, leaving later conditions eligible. With no match the
// value passes through.
func applyConditions(value any, conditions []domain.Condition) (any, []string) {
	var reasons []string
	for _, cond := range conditions {
		matched, reason := evaluateCondition(value, cond)
		if reason != "" {
			reasons = append(reasons, reason)
			continue
		}
		if matched {
			if cond.Result != nil {
				return cond.Result, reasons
			}
			return value, reasons
		}
	}
	return value, reasons
}

// evaluateCondition tests one condition. Ordering operators coerce both
// operands to float64; a failed coercion means the condition does not match.
func evaluateCondition(value any, cond domain.Condition) (bool, string) {
	switch cond.Operator {
	case domain.OpEq:
		return looseEqual(value, cond.Value), ""
	case domain.OpNe:
		return !looseEqual(value, cond.Value), ""
	case domain.OpGt, domain.OpGte, domain.OpLt, domain.OpLte:
		left, lok := toFloat(value)
		right, rok := toFloat(cond.Value)
		if !lok || !rok {
			return false, ""
		}
		switch cond.Operator {
		case domain.OpGt:
			return left > right, ""
		case domain.OpGte:
			return left >= right, ""
		case domain.OpLt:
			return left < right, ""
		default:
			return left <= right, ""
		}
	case domain.OpIn:
		return collectionContains(cond.Value, value), ""
	case domain.OpNotIn:
		return !collectionContains(cond.Value, value), ""
	default:
		return false, "unknown operator: " + string(cond.Operator)
	}
}
