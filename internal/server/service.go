// Package server exposes stored analysis records over HTTP.
package server

import (
	"context"

	"github.com/navid-fn/radar/internal/arbitrage"
	"github.com/navid-fn/radar/internal/models"
)

// RecordRepository is the read side of storage.Storage.
type RecordRepository interface {
	LatestRecords(ctx context.Context) ([]models.AnalysisRecord, error)
}

type RecordService struct {
	repo RecordRepository
	cfg  arbitrage.Config
	topN int
}

func NewRecordService(repo RecordRepository, cfg arbitrage.Config, topN int) *RecordService {
	return &RecordService{repo: repo, cfg: cfg, topN: topN}
}

func (s *RecordService) LatestRecords(ctx context.Context) ([]models.AnalysisRecord, error) {
	records, err := s.repo.LatestRecords(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}
	return records, nil
}

// TopOpportunities re-applies the opportunity gates to the latest records
// and returns the best limit of them. A limit below 1 means the default.
func (s *RecordService) TopOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error) {
	records, err := s.repo.LatestRecords(ctx)
	if err != nil {
		return nil, err
	}

	var ops []models.Opportunity
	for _, r := range records {
		if op, ok := arbitrage.Qualify(r, s.cfg); ok {
			ops = append(ops, op)
		}
	}

	if limit < 1 {
		limit = s.topN
	}
	return arbitrage.Rank(ops).Top(limit), nil
}
