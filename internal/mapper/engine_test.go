package mapper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aim/internal/domain"
)

func TestEngine_MapFields(t *testing.T) {
	scale := func(f float64) *float64 { return &f }

	tests := []struct {
		name         string
		spec         *domain.MappingSpec
		record       domain.Record
		want         domain.Record
		wantWarnings int
	}{
		{
			name: "simple renames",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{Source: "applicant_first_name", Target: "insured_first_name"},
					{Source: "applicant_last_name", Target: "insured_last_name"},
				},
			},
			record: domain.Record{
				"applicant_first_name": "Jane",
				"applicant_last_name":  "Doe",
			},
			want: domain.Record{
				"insured_first_name": "Jane",
				"insured_last_name":  "Doe",
			},
		},
		{
			name: "spec fields absent from the record are skipped",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{Source: "applicant_first_name", Target: "insured_first_name"},
					{Source: "applicant_middle_name", Target: "insured_middle_name"},
				},
			},
			record: domain.Record{"applicant_first_name": "Jane"},
			want:   domain.Record{"insured_first_name": "Jane"},
		},
		{
			name: "record fields absent from the spec are dropped",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{Source: "applicant_first_name", Target: "insured_first_name"},
				},
			},
			record: domain.Record{
				"applicant_first_name": "Jane",
				"internal_note":        "do not persist",
			},
			want: domain.Record{"insured_first_name": "Jane"},
		},
		{
			name: "value mapping replaces known values and keeps unknown ones",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "applicant_gender",
						Target: "insured_gender",
						Rule: &domain.FieldRule{
							ValueMapping: map[string]any{"M": "Male", "F": "Female"},
						},
					},
					{
						Source: "premium_mode",
						Target: "premium_frequency",
						Rule: &domain.FieldRule{
							ValueMapping: map[string]any{"A": "Annual", "M": "Monthly"},
						},
					},
				},
			},
			record: domain.Record{
				"applicant_gender": "M",
				"premium_mode":     "W", // not in the table
			},
			want: domain.Record{
				"insured_gender":    "Male",
				"premium_frequency": "W",
			},
		},
		{
			name: "scaling applies to numeric values only",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{Source: "premium", Target: "loaded_premium", Rule: &domain.FieldRule{ScaleFactor: scale(1.05)}},
					{Source: "note", Target: "note_out", Rule: &domain.FieldRule{ScaleFactor: scale(1.05)}},
				},
			},
			record: domain.Record{"premium": 100, "note": "abc"},
			want:   domain.Record{"loaded_premium": 105.0, "note_out": "abc"},
		},
		{
			name: "conditions first match wins",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "age",
						Target: "age_band",
						Rule: &domain.FieldRule{
							Conditions: []domain.Condition{
								{Operator: domain.OpGt, Value: "65", Result: "senior"},
								{Operator: domain.OpLte, Value: "65", Result: "adult"},
							},
						},
					},
				},
			},
			record: domain.Record{"age": 70},
			want:   domain.Record{"age_band": "senior"},
		},
		{
			name: "conditions fall through to the later branch",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "age",
						Target: "age_band",
						Rule: &domain.FieldRule{
							Conditions: []domain.Condition{
								{Operator: domain.OpGt, Value: "65", Result: "senior"},
								{Operator: domain.OpLte, Value: "65", Result: "adult"},
							},
						},
					},
				},
			},
			record: domain.Record{"age": 40},
			want:   domain.Record{"age_band": "adult"},
		},
		{
			name: "no matching condition keeps the value",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "age",
						Target: "age_band",
						Rule: &domain.FieldRule{
							Conditions: []domain.Condition{
								{Operator: domain.OpGt, Value: 100, Result: "centenarian"},
							},
						},
					},
				},
			},
			record: domain.Record{"age": 40},
			want:   domain.Record{"age_band": 40},
		},
		{
			name: "ordering condition with non-numeric value does not match and does not warn",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "occupation",
						Target: "occupation_class",
						Rule: &domain.FieldRule{
							Conditions: []domain.Condition{
								{Operator: domain.OpGt, Value: 10, Result: "hazardous"},
							},
						},
					},
				},
			},
			record: domain.Record{"occupation": "pilot"},
			want:   domain.Record{"occupation_class": "pilot"},
		},
		{
			name: "in and not_in test collection membership",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "state",
						Target: "region",
						Rule: &domain.FieldRule{
							Conditions: []domain.Condition{
								{Operator: domain.OpIn, Value: []any{"NY", "NJ", "CT"}, Result: "tri-state"},
								{Operator: domain.OpNotIn, Value: []any{"AK", "HI"}, Result: "mainland"},
							},
						},
					},
				},
			},
			record: domain.Record{"state": "TX"},
			want:   domain.Record{"region": "mainland"},
		},
		{
			name: "complex rule without target writes under the source name",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{Source: "first_name", Target: "insured_first_name"},
					{
						Source: "age",
						Rule: &domain.FieldRule{
							DataType: domain.DataTypeInt,
							Conditions: []domain.Condition{
								{Operator: domain.OpGte, Value: 18, Result: "eligible"},
							},
						},
					},
				},
			},
			record: domain.Record{"first_name": "Jane", "age": "25"},
			want:   domain.Record{"insured_first_name": "Jane", "age": "eligible"},
		},
		{
			name: "conversion failure degrades with a warning and keeps the value",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{Source: "age", Target: "insured_age", Rule: &domain.FieldRule{DataType: domain.DataTypeInt}},
				},
			},
			record:       domain.Record{"age": "abc"},
			want:         domain.Record{"insured_age": "abc"},
			wantWarnings: 1,
		},
		{
			name: "unknown operator warns and later conditions still apply",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "age",
						Target: "age_band",
						Rule: &domain.FieldRule{
							DataType: domain.DataTypeInt,
							Conditions: []domain.Condition{
								{Operator: "regex", Value: "6.", Result: "never"},
								{Operator: domain.OpGte, Value: 65, Result: "senior"},
							},
						},
					},
				},
			},
			record:       domain.Record{"age": 70},
			want:         domain.Record{"age_band": "senior"},
			wantWarnings: 1,
		},
		{
			name: "stages apply in order: convert then map then scale then conditions",
			spec: &domain.MappingSpec{
				ProductType: "life",
				Fields: []domain.FieldMapping{
					{
						Source: "coverage",
						Target: "coverage_amount",
						Rule: &domain.FieldRule{
							DataType:     domain.DataTypeFloat,
							ValueMapping: map[string]any{"0": 1000},
							ScaleFactor:  scale(2),
							Conditions: []domain.Condition{
								{Operator: domain.OpGte, Value: 2000, Result: "capped"},
							},
						},
					},
				},
			},
			// "0" -> 0.0 -> mapped to 1000 -> scaled to 2000 -> condition hits
			record: domain.Record{"coverage": "0"},
			want:   domain.Record{"coverage_amount": "capped"},
		},
	}

	engine := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.MapFields(tt.spec, tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Mapped)
			assert.Len(t, got.Warnings, tt.wantWarnings)
		})
	}
}

func TestEngine_MapFields_MissingSpec(t *testing.T) {
	engine := New(nil)

	tests := []struct {
		name string
		spec *domain.MappingSpec
	}{
		{name: "nil spec", spec: nil},
		{name: "empty spec", spec: &domain.MappingSpec{ProductType: "boat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.MapFields(tt.spec, domain.Record{"a": 1})
			assert.Nil(t, got)

			var mapErr *domain.MappingError
			assert.True(t, errors.As(err, &mapErr))
			assert.ErrorIs(t, err, domain.ErrSpecNotFound)
		})
	}
}

func TestEngine_MapFields_DoesNotMutateInput(t *testing.T) {
	engine := New(nil)
	spec := &domain.MappingSpec{
		ProductType: "life",
		Fields: []domain.FieldMapping{
			{Source: "age", Target: "insured_age", Rule: &domain.FieldRule{DataType: domain.DataTypeInt}},
		},
	}
	rec := domain.Record{"age": "30.7"}

	got, err := engine.MapFields(spec, rec)
	require.NoError(t, err)
	assert.Equal(t, domain.Record{"insured_age": 30}, got.Mapped)
	assert.Equal(t, domain.Record{"age": "30.7"}, rec, "input record must stay untouched")
}

func TestEngine_Summary(t *testing.T) {
	scale := 1.05
	spec := &domain.MappingSpec{
		ProductType: "life",
		Fields: []domain.FieldMapping{
			{Source: "applicant_first_name", Target: "insured_first_name"},
			{
				Source: "policy_face_amount",
				Target: "coverage_amount",
				Rule:   &domain.FieldRule{DataType: domain.DataTypeFloat, ScaleFactor: &scale},
			},
		},
	}

	engine := New(nil)
	summary := engine.Summary(spec)

	assert.Equal(t, "life", summary.ProductType)
	assert.Equal(t, 2, summary.TotalMappings)
	assert.Equal(t, 1, summary.SimpleMappings)
	assert.Equal(t, 1, summary.ComplexMappings)
	assert.Equal(t, []domain.MappingSummaryField{
		{SourceField: "applicant_first_name", TargetField: "insured_first_name", Type: "simple"},
		{
			SourceField:     "policy_face_amount",
			TargetField:     "coverage_amount",
			Type:            "complex",
			Transformations: []string{"data_type", "scale_factor"},
		},
	}, summary.Fields)
}
