// internal/imageproc/watch.go
package imageproc

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Watcher polls the store for a record's terminal state on a fixed interval.
// It is the server-side counterpart of the dashboard's status polling loop.
type Watcher struct {
	store    *Store
	interval time.Duration
}

func NewWatcher(store *Store, interval time.Duration) *Watcher {
	return &Watcher{store: store, interval: interval}
}

// Wait re-reads the record until its status leaves processing, then returns
// the terminal record. Cancelling the context stops the loop; a record
// removed while being watched yields ErrRecordNotFound.
func (w *Watcher) Wait(ctx context.Context, id uuid.UUID) (Record, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		rec, ok := w.store.Get(id)
		if !ok {
			return Record{}, ErrRecordNotFound
		}
		if rec.Status.Terminal() {
			return rec, nil
		}

		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
