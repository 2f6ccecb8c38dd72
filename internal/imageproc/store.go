// internal/imageproc/store.go
package imageproc

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory collection of processed-image records, ordered
// most-recent-first. It is constructor-injected into the workflow and the
// orchestrator; contents are lost on restart.
//
// Submission, the completion timer and removal all touch the collection from
// different goroutines, so every operation holds the mutex, and the terminal
// transition is idempotent per record id.
type Store struct {
	mu      sync.Mutex
	records []*Record
}

func NewStore() *Store {
	return &Store{}
}

// Insert puts the record at the head of the collection.
func (s *Store) Insert(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records = append([]*Record{&cp}, s.records...)
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id uuid.UUID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id {
			return *r, true
		}
	}
	return Record{}, false
}

// List returns copies of the owner's records, most-recently-submitted first.
func (s *Store) List(ownerID uint) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out
}

// Remove deletes the record with the given id. No-op if absent.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// Complete transitions the record to completed, populating the processed and
// thumbnail references. It fires at most once: a missing or already-terminal
// record is left untouched and reported via the bool.
func (s *Store) Complete(id uuid.UUID, processedRef, thumbnailRef string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID != id {
			continue
		}
		if r.Status.Terminal() {
			return *r, false
		}
		now := time.Now()
		r.Status = StatusCompleted
		r.ProcessedRef = processedRef
		r.ThumbnailRef = thumbnailRef
		r.CompletedAt = &now
		r.LastUpdatedAt = now
		return *r, true
	}
	return Record{}, false
}

// Fail transitions the record to failed with a reason. Same one-shot
// semantics as Complete; the processed references stay unset.
func (s *Store) Fail(id uuid.UUID, reason string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID != id {
			continue
		}
		if r.Status.Terminal() {
			return *r, false
		}
		now := time.Now()
		r.Status = StatusFailed
		r.FailureReason = reason
		r.CompletedAt = &now
		r.LastUpdatedAt = now
		return *r, true
	}
	return Record{}, false
}

// Len reports the total number of records across all owners.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
