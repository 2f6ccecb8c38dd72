// internal/imageproc/record.go
package imageproc

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a processed-image record.
// processing is the only initial state; completed and failed are terminal.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

var (
	// ErrUnsupportedType is returned when the declared media type is not on
	// the allow-list.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned when the upload exceeds the size ceiling.
	ErrTooLarge = errors.New("image too large")

	// ErrRecordNotFound is returned when no record matches the given id.
	ErrRecordNotFound = errors.New("record not found")
)

// Record is one submitted image and its processing outcome.
//
// Invariants, enforced by the store's transition methods:
//   - ProcessedRef and ThumbnailRef are set iff Status is completed
//   - FailureReason is set iff Status is failed
//   - CompletedAt is set iff Status is terminal
//   - a record mutates exactly once, on its single terminal transition
type Record struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       uint       `json:"owner_id"`
	Filename      string     `json:"filename"`
	OriginalRef   string     `json:"original_ref"`
	ProcessedRef  string     `json:"processed_ref,omitempty"`
	ThumbnailRef  string     `json:"thumbnail_ref,omitempty"`
	Status        Status     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	LastUpdatedAt time.Time  `json:"last_updated_at"`
}
