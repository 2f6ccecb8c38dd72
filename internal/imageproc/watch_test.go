package imageproc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReturnsImmediatelyOnTerminalRecord(t *testing.T) {
	store := NewStore()
	rec := newProcessingRecord(1)
	store.Insert(rec)
	store.Complete(rec.ID, "processed", "thumb")

	w := NewWatcher(store, time.Hour)

	got, err := w.Wait(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "processed", got.ProcessedRef)
}

func TestWatcher_PicksUpTransitionWhileWaiting(t *testing.T) {
	store := NewStore()
	rec := newProcessingRecord(1)
	store.Insert(rec)

	w := NewWatcher(store, 5*time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		store.Fail(rec.ID, "simulated failure")
	}()

	got, err := w.Wait(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "simulated failure", got.FailureReason)
}

func TestWatcher_UnknownRecord(t *testing.T) {
	w := NewWatcher(NewStore(), time.Hour)

	_, err := w.Wait(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestWatcher_RecordRemovedWhileWaiting(t *testing.T) {
	store := NewStore()
	rec := newProcessingRecord(1)
	store.Insert(rec)

	w := NewWatcher(store, 5*time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		store.Remove(rec.ID)
	}()

	_, err := w.Wait(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestWatcher_ContextCancellationStopsWaiting(t *testing.T) {
	store := NewStore()
	rec := newProcessingRecord(1)
	store.Insert(rec)

	w := NewWatcher(store, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := w.Wait(ctx, rec.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
