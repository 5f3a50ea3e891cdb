package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name   string
		nested map[string]any
		want   Record
	}{
		{
			name: "sections join as section_fieldname",
			nested: map[string]any{
				"applicant": map[string]any{
					"first_name": "Jane",
					"last_name":  "Doe",
				},
				"policy": map[string]any{
					"face_amount": 250000.0,
				},
			},
			want: Record{
				"applicant_first_name": "Jane",
				"applicant_last_name":  "Doe",
				"policy_face_amount":   250000.0,
			},
		},
		{
			name: "top-level scalars pass through",
			nested: map[string]any{
				"product_type": "life",
				"smoker":       false,
			},
			want: Record{
				"product_type": "life",
				"smoker":       false,
			},
		},
		{
			name: "array sections flatten with 1-based indexes and a count",
			nested: map[string]any{
				"beneficiary": []any{
					map[string]any{"name": "Jane Doe", "share": 60},
					map[string]any{"name": "Jim Doe", "share": 40},
				},
			},
			want: Record{
				"beneficiary_1_name":  "Jane Doe",
				"beneficiary_1_share": 60,
				"beneficiary_2_name":  "Jim Doe",
				"beneficiary_2_share": 40,
				"beneficiary_count":   2,
			},
		},
		{
			name: "array of scalars flattens with indexed keys",
			nested: map[string]any{
				"rider": []any{"ADB", "WP"},
			},
			want: Record{
				"rider_1":     "ADB",
				"rider_2":     "WP",
				"rider_count": 2,
			},
		},
		{
			name:   "empty input",
			nested: map[string]any{},
			want:   Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.nested))
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	rec := Record{"a": 1, "b": "x"}
	clone := rec.Clone()

	clone["a"] = 2
	assert.Equal(t, 1, rec["a"])
	assert.Equal(t, 2, clone["a"])
}
