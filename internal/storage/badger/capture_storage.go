package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/capto/internal/interfaces"
	"github.com/ternarybob/capto/internal/models"
)

// CaptureStorage implements the CaptureStorage interface for Badger
type CaptureStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCaptureStorage creates a new CaptureStorage instance
func NewCaptureStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CaptureStorage {
	return &CaptureStorage{
		db:     db,
		logger: logger,
	}
}

// SaveCapture upserts a capture record
func (s *CaptureStorage) SaveCapture(ctx context.Context, record *models.CaptureRecord) error {
	if record.ID == "" {
		return fmt.Errorf("capture record ID is required")
	}
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save capture record: %w", err)
	}
	return nil
}

// ListCaptures returns the most recent capture records, newest first
func (s *CaptureStorage) ListCaptures(ctx context.Context, limit int) ([]*models.CaptureRecord, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*models.CaptureRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list capture records: %w", err)
	}
	return records, nil
}

// LatestCapture returns the most recent capture record, or nil when the
// store is empty
func (s *CaptureStorage) LatestCapture(ctx context.Context) (*models.CaptureRecord, error) {
	records, err := s.ListCaptures(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Close closes the underlying database
func (s *CaptureStorage) Close() error {
	return s.db.Close()
}
