package usecase

import (
	"context"

	"aim/internal/domain"
)

// SpecProvider supplies read-only configuration: mapping specifications and
// calculator schemas keyed by product type. The usecase layer depends on this
// interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_ports.go -source=interface.go
type SpecProvider interface {
	FieldMappings(productType string) (*domain.MappingSpec, error)
	Calculator(productType string) (*domain.CalculatorSchema, error)
}

// RecordSource reads flattened records from an input file.
type RecordSource interface {
	ReadRecords(ctx context.Context, path string) ([]domain.Record, error)
}

// RecordStore persists mapped records and enforces fingerprint uniqueness.
type RecordStore interface {
	Save(ctx context.Context, rec *domain.StoredRecord) (int64, error)
	Get(ctx context.Context, id int64) (*domain.StoredRecord, error)
	List(ctx context.Context, productType string) ([]domain.StoredRecord, error)
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
