// internal/imageproc/service.go
package imageproc

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"creditpix-back/internal/storage"

	"github.com/google/uuid"
)

// Service runs the image-processing workflow: it accepts staged uploads,
// tracks their records in the injected store and simulates the asynchronous
// processing job with a one-shot timer per record.
type Service struct {
	store   *Store
	objects storage.ObjectStore
	latency time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	closed bool
}

func NewService(store *Store, objects storage.ObjectStore, latency time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		objects: objects,
		latency: latency,
		logger:  logger,
		timers:  make(map[uuid.UUID]*time.Timer),
	}
}

// Submit stores the staged bytes, creates a record in the processing state at
// the head of the collection and schedules the delayed completion. It returns
// immediately; the terminal transition happens on the timer goroutine.
func (s *Service) Submit(ctx context.Context, ownerID uint, staged *StagedUpload) (*Record, error) {
	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(staged.Filename))
	originalKey := fmt.Sprintf("users/%d/original/%s%s", ownerID, id, ext)

	f, err := staged.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer f.Close()

	if err := s.objects.Put(ctx, originalKey, f, staged.SizeBytes, staged.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store original image: %w", err)
	}

	now := time.Now()
	rec := &Record{
		ID:            id,
		OwnerID:       ownerID,
		Filename:      staged.Filename,
		OriginalRef:   originalKey,
		Status:        StatusProcessing,
		SubmittedAt:   now,
		LastUpdatedAt: now,
	}
	s.store.Insert(rec)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return rec, nil
	}
	s.timers[id] = time.AfterFunc(s.latency, func() {
		s.finish(ownerID, id, originalKey, ext)
	})
	s.mu.Unlock()

	s.logger.Info("image submitted",
		"record_id", id,
		"owner_id", ownerID,
		"filename", staged.Filename,
		"size_bytes", staged.SizeBytes,
	)

	return rec, nil
}

// finish is the simulated processing job. The processed and thumbnail objects
// are derived copies of the original; if deriving them fails the record
// transitions to failed instead.
func (s *Service) finish(ownerID uint, id uuid.UUID, originalKey, ext string) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	processedKey := fmt.Sprintf("users/%d/processed/%s%s", ownerID, id, ext)
	thumbnailKey := fmt.Sprintf("users/%d/thumbnail/%s%s", ownerID, id, ext)

	if err := s.objects.Copy(ctx, processedKey, originalKey); err != nil {
		s.fail(id, fmt.Sprintf("failed to produce processed image: %s", err))
		return
	}
	if err := s.objects.Copy(ctx, thumbnailKey, originalKey); err != nil {
		s.fail(id, fmt.Sprintf("failed to produce thumbnail: %s", err))
		return
	}

	if rec, ok := s.store.Complete(id, processedKey, thumbnailKey); ok {
		s.logger.Info("image processing completed", "record_id", id, "owner_id", rec.OwnerID)
	}
}

func (s *Service) fail(id uuid.UUID, reason string) {
	if _, ok := s.store.Fail(id, reason); ok {
		s.logger.Error("image processing failed", "record_id", id, "reason", reason)
	}
}

// Get returns the record with the given id.
func (s *Service) Get(id uuid.UUID) (Record, bool) {
	return s.store.Get(id)
}

// List returns the owner's records, most-recently-submitted first.
func (s *Service) List(ownerID uint) []Record {
	return s.store.List(ownerID)
}

// Remove deletes the record and its objects. A pending completion timer is
// cancelled so it cannot resurrect state for a deleted record. Idempotent.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	rec, ok := s.store.Get(id)
	if !ok {
		return
	}
	s.store.Remove(id)

	for _, key := range []string{rec.OriginalRef, rec.ProcessedRef, rec.ThumbnailRef} {
		if key == "" {
			continue
		}
		if err := s.objects.Remove(ctx, key); err != nil {
			s.logger.Warn("failed to remove object", "key", key, "error", err)
		}
	}

	s.logger.Info("image removed", "record_id", id)
}

// Close cancels all pending completion timers. Records already submitted stay
// in the store in whatever state they reached.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
