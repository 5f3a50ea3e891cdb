package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aim/internal/compare"
	"aim/internal/domain"
	"aim/internal/mapper"
)

// CompareUseCase evaluates stored records against calculator schemas and
// exposes mapping-specification diagnostics.
type CompareUseCase struct {
	specs  SpecProvider
	store  RecordStore
	engine *mapper.Engine
	logger *zap.Logger
}

// NewCompareUseCase creates a new instance of the usecase.
func NewCompareUseCase(specs SpecProvider, store RecordStore, engine *mapper.Engine, logger *zap.Logger) *CompareUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompareUseCase{specs: specs, store: store, engine: engine, logger: logger}
}

// Compare loads a stored record and evaluates it against the calculator
// schema for the given product type. An empty productType falls back to the
// product the record was stored under.
func (uc *CompareUseCase) Compare(ctx context.Context, recordID int64, productType string) (*domain.ComparisonReport, error) {
	stored, err := uc.store.Get(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("could not load record: %w", err)
	}
	if productType == "" {
		productType = stored.ProductType
	}

	schema, err := uc.specs.Calculator(productType)
	if err != nil {
		return nil, fmt.Errorf("could not load calculator schema: %w", err)
	}

	report := compare.Evaluate(stored.Data, schema)
	uc.logger.Info("comparison complete",
		zap.Int64("record_id", recordID),
		zap.String("product_type", productType),
		zap.Float64("completion", report.Stats.CompletionPercentage))
	return report, nil
}

// MappingSummary returns the diagnostic overview of the mapping
// specification for a product type.
func (uc *CompareUseCase) MappingSummary(productType string) (*domain.MappingSummary, error) {
	spec, err := uc.specs.FieldMappings(productType)
	if err != nil {
		return nil, fmt.Errorf("could not load mapping specification: %w", err)
	}
	return uc.engine.Summary(spec), nil
}
