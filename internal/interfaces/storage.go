package interfaces

import (
	"context"

	"github.com/ternarybob/capto/internal/models"
)

// CaptureStorage persists capture-attempt history records.
type CaptureStorage interface {
	SaveCapture(ctx context.Context, record *models.CaptureRecord) error
	ListCaptures(ctx context.Context, limit int) ([]*models.CaptureRecord, error)
	LatestCapture(ctx context.Context) (*models.CaptureRecord, error)
	Close() error
}
