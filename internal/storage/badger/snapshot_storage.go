package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/lucrum/internal/models"
)

// SnapshotStorage caches per-ticker analysis snapshots so repeated requests
// inside the freshness window skip the scrape entirely.
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a snapshot cache backed by Badger
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) *SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

// Save persists a snapshot, replacing any previous snapshot for the ticker
func (s *SnapshotStorage) Save(ctx context.Context, snapshot *models.StockSnapshot) error {
	if snapshot == nil || snapshot.Ticker == "" {
		return fmt.Errorf("snapshot must have a ticker")
	}
	if err := s.db.Store().Upsert(snapshot.Ticker, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snapshot.Ticker, err)
	}
	s.logger.Debug().Str("ticker", snapshot.Ticker).Msg("Snapshot cached")
	return nil
}

// Get returns the cached snapshot for a ticker, or nil when none exists
func (s *SnapshotStorage) Get(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	var snapshot models.StockSnapshot
	err := s.db.Store().Get(ticker, &snapshot)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot for %s: %w", ticker, err)
	}
	return &snapshot, nil
}

// GetFresh returns the cached snapshot only when it was collected within the
// freshness window. Stale or missing snapshots return nil.
func (s *SnapshotStorage) GetFresh(ctx context.Context, ticker string, window time.Duration) (*models.StockSnapshot, error) {
	snapshot, err := s.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || !snapshot.IsFresh(window) {
		return nil, nil
	}
	return snapshot, nil
}

// Delete removes the cached snapshot for a ticker
func (s *SnapshotStorage) Delete(ctx context.Context, ticker string) error {
	err := s.db.Store().Delete(ticker, &models.StockSnapshot{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete snapshot for %s: %w", ticker, err)
	}
	return nil
}

// List returns all cached snapshots ordered by collection time, newest first
func (s *SnapshotStorage) List(ctx context.Context) ([]models.StockSnapshot, error) {
	var snapshots []models.StockSnapshot
	err := s.db.Store().Find(&snapshots, badgerhold.Where("Ticker").Ne("").SortBy("CollectedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}
