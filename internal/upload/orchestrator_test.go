package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"creditpix-back/internal/imageproc"
	"creditpix-back/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreditUpdater struct {
	mock.Mock
}

func (m *mockCreditUpdater) UpdateCredits(ctx context.Context, userID uint, newBalance int) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorkflow(t *testing.T) (*imageproc.Service, *imageproc.Store) {
	t.Helper()
	store := imageproc.NewStore()
	svc := imageproc.NewService(store, storage.NewMemoryStore(), time.Hour, testLogger())
	t.Cleanup(svc.Close)
	return svc, store
}

func stagePNG(t *testing.T, data []byte) *imageproc.StagedUpload {
	t.Helper()
	intake := imageproc.NewIntake(5<<20, t.TempDir())
	staged, err := intake.Stage("photo.png", "image/png", int64(len(data)), bytes.NewReader(data), nil)
	require.NoError(t, err)
	t.Cleanup(staged.Discard)
	return staged
}

func TestOrchestrator_SuccessfulUploadDebitsOneCredit(t *testing.T) {
	workflow, store := newTestWorkflow(t)
	credits := &mockCreditUpdater{}
	credits.On("UpdateCredits", mock.Anything, uint(7), 4).Return(nil)

	orch := NewOrchestrator(workflow, credits, 1, testLogger())

	res, err := orch.AttemptUpload(context.Background(), 7, 5, stagePNG(t, bytes.Repeat([]byte("x"), 2<<20)))
	require.NoError(t, err)

	assert.Equal(t, 4, res.NewBalance)
	assert.Equal(t, imageproc.StatusProcessing, res.Record.Status)
	assert.Len(t, store.List(7), 1)
	credits.AssertExpectations(t)
}

func TestOrchestrator_UnauthenticatedUserIsRejected(t *testing.T) {
	workflow, store := newTestWorkflow(t)
	credits := &mockCreditUpdater{}

	orch := NewOrchestrator(workflow, credits, 1, testLogger())

	_, err := orch.AttemptUpload(context.Background(), 0, 5, stagePNG(t, []byte("x")))
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, 0, store.Len())
	credits.AssertNotCalled(t, "UpdateCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_ZeroBalanceCreatesNoRecord(t *testing.T) {
	workflow, store := newTestWorkflow(t)
	credits := &mockCreditUpdater{}

	orch := NewOrchestrator(workflow, credits, 1, testLogger())

	_, err := orch.AttemptUpload(context.Background(), 7, 0, stagePNG(t, []byte("x")))
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, 0, store.Len())
	credits.AssertNotCalled(t, "UpdateCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_DebitFailureKeepsRecord(t *testing.T) {
	workflow, store := newTestWorkflow(t)
	credits := &mockCreditUpdater{}
	credits.On("UpdateCredits", mock.Anything, uint(7), 4).Return(errors.New("db down"))

	orch := NewOrchestrator(workflow, credits, 1, testLogger())

	res, err := orch.AttemptUpload(context.Background(), 7, 5, stagePNG(t, []byte("x")))
	require.ErrorIs(t, err, ErrCreditUpdate)

	// The submission already happened; the record stays and the caller gets
	// the balance it started with.
	require.NotNil(t, res)
	assert.Len(t, store.List(7), 1)
	assert.Equal(t, 5, res.NewBalance)
}

func TestOrchestrator_SubmitFailureTouchesNoCredit(t *testing.T) {
	store := imageproc.NewStore()
	objects := storage.NewMockObjectStore()
	objects.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("storage offline"))
	workflow := imageproc.NewService(store, objects, time.Hour, testLogger())
	defer workflow.Close()

	credits := &mockCreditUpdater{}
	orch := NewOrchestrator(workflow, credits, 1, testLogger())

	_, err := orch.AttemptUpload(context.Background(), 7, 5, stagePNG(t, []byte("x")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCreditUpdate)
	credits.AssertNotCalled(t, "UpdateCredits", mock.Anything, mock.Anything, mock.Anything)
}
