package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/netojaycee/forecast-prices-app/internal/notify"
	"github.com/netojaycee/forecast-prices-app/internal/predictor"
	"github.com/netojaycee/forecast-prices-app/internal/upload"
	"go.uber.org/zap"
)

// BatchPredictor is the batch-upload side of the remote service client.
type BatchPredictor interface {
	PredictBatch(ctx context.Context, filename string, file io.Reader) ([]predictor.LocationPrice, error)
}

// BatchWorkflow drives a spreadsheet upload submission. It shares no state
// with the single-prediction workflow.
type BatchWorkflow struct {
	predictor BatchPredictor
	validator *upload.Validator
	notifier  notify.Notifier
	logger    *zap.Logger
	onResult  func([]predictor.LocationPrice)

	state      State
	violations upload.Violations
	chart      []predictor.LocationPrice
}

// NewBatch constructs a batch-upload workflow in the idle state. A nil
// validator falls back to the 5 MiB service limit.
func NewBatch(pred BatchPredictor, validator *upload.Validator, notifier notify.Notifier, logger *zap.Logger) *BatchWorkflow {
	if validator == nil {
		validator = upload.NewValidator(0)
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchWorkflow{
		predictor: pred,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		state:     StateIdle,
	}
}

// SetOnResult registers a hook invoked with each new successful collection,
// feeding the chart renderer.
func (w *BatchWorkflow) SetOnResult(fn func([]predictor.LocationPrice)) {
	w.onResult = fn
}

// State returns the current submission state.
func (w *BatchWorkflow) State() State {
	return w.state
}

// Violations returns the file field messages from the most recent attempt.
func (w *BatchWorkflow) Violations() upload.Violations {
	return w.violations
}

// Chart returns the currently charted collection in service order, or nil if
// no batch has succeeded yet. A failed upload never clears it.
func (w *BatchWorkflow) Chart() []predictor.LocationPrice {
	return w.chart
}

// Submit validates the upload envelope and, if it passes, transfers the file.
// The response is all-or-nothing: a successful collection replaces the
// previous chart wholesale, a failure leaves it untouched and emits an error
// notification.
func (w *BatchWorkflow) Submit(ctx context.Context, file upload.File, content io.Reader) error {
	if w.state == StateSubmitting {
		return ErrSubmissionInFlight
	}

	w.violations = w.validator.Validate(file)
	if !w.violations.OK() {
		return ErrValidationFailed
	}

	id := uuid.NewString()
	w.state = StateSubmitting
	w.logger.Info("submitting batch upload",
		zap.String("op", "workflow.BatchSubmit"),
		zap.String("submission", id),
		zap.String("file", file.Name),
		zap.Int64("size", file.Size),
	)

	predictions, err := w.predictor.PredictBatch(ctx, file.Name, content)
	if err != nil {
		w.state = StateError
		w.logger.Error("batch upload failed",
			zap.String("op", "workflow.BatchSubmit"),
			zap.String("submission", id),
			zap.Error(err),
		)
		w.notifier.Notify(notify.SeverityError, "Error", "Failed to process file. Please try again.")
		return fmt.Errorf("batch prediction failed: %w", err)
	}

	w.chart = predictions
	w.state = StateSuccess
	w.logger.Info("batch predictions received",
		zap.String("op", "workflow.BatchSubmit"),
		zap.String("submission", id),
		zap.Int("predictions", len(predictions)),
	)
	w.notifier.Notify(notify.SeveritySuccess, "Success", "File processed successfully!")
	if w.onResult != nil {
		w.onResult(predictions)
	}
	return nil
}
