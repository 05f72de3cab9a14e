package storage

import (
	"context"
	"fmt"

	"github.com/navid-fn/radar/internal/models"
)

// Sink writes every cycle's records into Storage.
type Sink struct {
	store Storage
}

func NewSink(store Storage) *Sink {
	return &Sink{store: store}
}

func (s *Sink) Name() string { return "clickhouse" }

func (s *Sink) Write(ctx context.Context, records []models.AnalysisRecord) error {
	if err := s.store.CreateRecords(ctx, records); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}
