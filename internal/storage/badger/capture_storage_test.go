package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/interfaces"
	"github.com/ternarybob/capto/internal/models"
)

func newTestStorage(t *testing.T) interfaces.CaptureStorage {
	t.Helper()
	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)

	storage := NewCaptureStorage(db, logger)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func captureRecord(id string, started time.Time, success bool) *models.CaptureRecord {
	record := &models.CaptureRecord{
		ID:        id,
		StartedAt: started,
		Success:   success,
		Stages:    []string{"navigate", "email", "password", "bootstrap_wait"},
	}
	record.CompletedAt = started.Add(45 * time.Second)
	if !success {
		record.Failure = "token_not_captured"
	}
	return record
}

func TestSaveAndListCaptures(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	require.NoError(t, storage.SaveCapture(ctx, captureRecord("first", base, false)))
	require.NoError(t, storage.SaveCapture(ctx, captureRecord("second", base.Add(10*time.Minute), true)))
	require.NoError(t, storage.SaveCapture(ctx, captureRecord("third", base.Add(20*time.Minute), true)))

	records, err := storage.ListCaptures(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "third", records[0].ID)
	assert.Equal(t, "first", records[2].ID)
}

func TestListCapturesHonorsLimit(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, storage.SaveCapture(ctx, captureRecord(id, base.Add(time.Duration(i)*time.Minute), true)))
	}

	records, err := storage.ListCaptures(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "d", records[0].ID)
	assert.Equal(t, "c", records[1].ID)
}

func TestLatestCapture(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	latest, err := storage.LatestCapture(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, storage.SaveCapture(ctx, captureRecord("old", base, false)))
	require.NoError(t, storage.SaveCapture(ctx, captureRecord("new", base.Add(30*time.Minute), true)))

	latest, err = storage.LatestCapture(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "new", latest.ID)
	assert.True(t, latest.Success)
}

func TestSaveCaptureRequiresID(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.SaveCapture(context.Background(), &models.CaptureRecord{StartedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID is required")
}

func TestSaveCaptureUpserts(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	started := time.Now().Add(-time.Minute)

	record := captureRecord("same-id", started, false)
	require.NoError(t, storage.SaveCapture(ctx, record))

	record.Success = true
	record.Failure = ""
	require.NoError(t, storage.SaveCapture(ctx, record))

	records, err := storage.ListCaptures(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)
}
