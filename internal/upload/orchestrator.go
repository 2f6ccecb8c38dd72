// internal/upload/orchestrator.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"creditpix-back/internal/imageproc"
)

var (
	// ErrAuthRequired is returned when no authenticated identity is present.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInsufficientCredits is returned when the balance cannot cover the
	// upload cost.
	ErrInsufficientCredits = errors.New("not enough credits")

	// ErrCreditUpdate wraps a failed debit after processing was already
	// submitted. The record stays in the collection regardless.
	ErrCreditUpdate = errors.New("failed to update credits")
)

// Workflow is the slice of the image-processing service the orchestrator
// drives.
type Workflow interface {
	Submit(ctx context.Context, ownerID uint, staged *imageproc.StagedUpload) (*imageproc.Record, error)
}

// CreditUpdater persists a caller-computed balance; the session service is
// the production implementation.
type CreditUpdater interface {
	UpdateCredits(ctx context.Context, userID uint, newBalance int) error
}

// Result is a successful upload attempt.
type Result struct {
	Record     *imageproc.Record
	NewBalance int
}

// Orchestrator mediates between the upload surface, the credit balance and
// the processing workflow: check balance, submit, debit.
type Orchestrator struct {
	workflow Workflow
	credits  CreditUpdater
	cost     int
	logger   *slog.Logger
}

func NewOrchestrator(workflow Workflow, credits CreditUpdater, cost int, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{workflow: workflow, credits: credits, cost: cost, logger: logger}
}

// AttemptUpload submits the staged file and debits the upload cost at
// submission time. The debit is tied to initiating processing, not to its
// outcome: a record that later fails has still consumed its credit.
//
// userID zero means unauthenticated. Rejections create no record and touch no
// credit. A debit failure after submission returns the result together with
// an error wrapping ErrCreditUpdate; the record is deliberately kept.
func (o *Orchestrator) AttemptUpload(ctx context.Context, userID uint, balance int, staged *imageproc.StagedUpload) (*Result, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	if balance < o.cost {
		return nil, ErrInsufficientCredits
	}

	rec, err := o.workflow.Submit(ctx, userID, staged)
	if err != nil {
		return nil, fmt.Errorf("failed to submit image: %w", err)
	}

	newBalance := balance - o.cost
	if err := o.credits.UpdateCredits(ctx, userID, newBalance); err != nil {
		o.logger.Error("debit failed after submission; keeping record",
			"record_id", rec.ID,
			"user_id", userID,
			"error", err,
		)
		return &Result{Record: rec, NewBalance: balance}, fmt.Errorf("%w: %w", ErrCreditUpdate, err)
	}

	return &Result{Record: rec, NewBalance: newBalance}, nil
}
