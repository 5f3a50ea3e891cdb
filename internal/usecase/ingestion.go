package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aim/internal/domain"
	"aim/internal/fingerprint"
	"aim/internal/mapper"
)

// IngestUseCase orchestrates one ingestion batch: read records from a source
// file, map them with the product's specification, fingerprint the mapped
// output and store it with duplicate rejection.
type IngestUseCase struct {
	specs  SpecProvider
	store  RecordStore
	engine *mapper.Engine
	logger *zap.Logger
}

// NewIngestUseCase creates a new instance of the usecase.
func NewIngestUseCase(specs SpecProvider, store RecordStore, engine *mapper.Engine, logger *zap.Logger) *IngestUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestUseCase{specs: specs, store: store, engine: engine, logger: logger}
}

// Ingest runs the batch. A missing mapping specification is terminal; a
// duplicate record is a counted outcome, not a failure; field-level mapping
// warnings are collected per record and never abort the batch.
func (uc *IngestUseCase) Ingest(ctx context.Context, source RecordSource, path, productType string) (*domain.IngestReport, error) {
	spec, err := uc.specs.FieldMappings(productType)
	if err != nil {
		return nil, &domain.MappingError{ProductType: productType, Err: err}
	}

	records, err := source.ReadRecords(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not read input records: %w", err)
	}

	report := &domain.IngestReport{
		SessionID:    uuid.NewString(),
		ProductType:  productType,
		TotalRecords: len(records),
	}

	base := filepath.Base(path)
	for i, rec := range records {
		name := fmt.Sprintf("%s#%d", base, i+1)

		result, err := uc.engine.MapFields(spec, rec)
		if err != nil {
			return nil, err
		}
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings, domain.IngestWarning{
				RecordName: name,
				Field:      w.Field,
				Reason:     w.Reason,
			})
		}

		stored := &domain.StoredRecord{
			Name:        name,
			ProductType: productType,
			SessionID:   report.SessionID,
			Fingerprint: fingerprint.Fingerprint(result.Mapped),
			Data:        result.Mapped,
			CreatedAt:   time.Now().UTC(),
		}

		id, err := uc.store.Save(ctx, stored)
		if errors.Is(err, domain.ErrDuplicateRecord) {
			report.Duplicates++
			uc.logger.Info("duplicate record rejected",
				zap.String("record", name),
				zap.String("fingerprint", stored.Fingerprint))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not store record %q: %w", name, err)
		}
		report.StoredRecords++
		report.StoredIDs = append(report.StoredIDs, id)
	}

	uc.logger.Info("ingestion batch complete",
		zap.String("session_id", report.SessionID),
		zap.String("product_type", productType),
		zap.Int("total", report.TotalRecords),
		zap.Int("stored", report.StoredRecords),
		zap.Int("duplicates", report.Duplicates))
	return report, nil
}
