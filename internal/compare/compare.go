// Package compare evaluates stored records against calculator field
// declarations, producing per-field verdicts and aggregate completion
// statistics.
package compare

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"aim/internal/domain"
)

// Evaluate classifies each calculator field, in schema order, against the
// stored record:
//
//   - absent or empty value        -> missing
//   - present, no expected value   -> matched
//   - present, equals expected     -> matched
//   - present, differs             -> mismatched
//
// Expected values compare as trimmed, case-insensitive strings. Completion
// percentage is matched/total*100 rounded to two decimals, 0 for an empty
// schema.
func Evaluate(stored domain.Record, schema *domain.CalculatorSchema) *domain.ComparisonReport {
	if schema == nil {
		return &domain.ComparisonReport{Fields: []domain.FieldVerdict{}}
	}
	report := &domain.ComparisonReport{
		ProductType: schema.ProductType,
		Fields:      make([]domain.FieldVerdict, 0, len(schema.Fields)),
	}

	for _, field := range schema.Fields {
		verdict := domain.FieldVerdict{
			FieldName:     field.Name,
			ExpectedValue: field.Expected,
			Required:      field.Required,
		}

		value, ok := stored[field.Name]
		if !ok || isEmpty(value) {
			verdict.Status = domain.StatusMissing
			report.Stats.MissingFields++
		} else {
			verdict.StoredValue = value
			if field.Expected == nil || equalFold(value, field.Expected) {
				verdict.Status = domain.StatusMatched
				report.Stats.MatchingFields++
			} else {
				verdict.Status = domain.StatusMismatched
			}
		}
		report.Fields = append(report.Fields, verdict)
	}

	report.Stats.TotalFields = len(schema.Fields)
	if report.Stats.TotalFields > 0 {
		pct := float64(report.Stats.MatchingFields) / float64(report.Stats.TotalFields) * 100
		report.Stats.CompletionPercentage = math.Round(pct*100) / 100
	}
	return report
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

// equalFold compares stored and expected values as trimmed, case-insensitive
// strings, so 100000 matches "100000" and "M" matches "m".
func equalFold(stored, expected any) bool {
	return strings.EqualFold(
		strings.TrimSpace(stringify(stored)),
		strings.TrimSpace(stringify(expected)),
	)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// Whole floats render without a decimal point, so 100000.0 compares
		// equal to an integer expectation written as 100000.
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
