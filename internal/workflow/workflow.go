// Package workflow owns the submission state machines for single predictions
// and batch uploads. Each workflow moves through idle -> submitting ->
// success/error, allows one in-flight submission at a time, and keeps the
// previously displayed result when a later submission fails.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/netojaycee/forecast-prices-app/internal/notify"
	"github.com/netojaycee/forecast-prices-app/internal/schema"
	"github.com/netojaycee/forecast-prices-app/pkg/civildate"
	"go.uber.org/zap"
)

// State is the submission state of a workflow.
type State int

const (
	// StateIdle means no submission has been attempted yet.
	StateIdle State = iota

	// StateSubmitting means a request is in flight.
	StateSubmitting

	// StateSuccess means the last submission produced a result.
	StateSuccess

	// StateError means the last submission failed.
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrSubmissionInFlight is returned when a submit is attempted while another
// submission has not yet settled. The submitting state is the mutual
// exclusion mechanism; no queueing or cancellation is performed.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrValidationFailed is returned when the candidate fails validation. The
// per-field messages are available via Violations; no network call was made.
var ErrValidationFailed = errors.New("validation failed")

// Predictor is the single-prediction side of the remote service client.
type Predictor interface {
	Predict(ctx context.Context, payload schema.Payload) (float64, error)
}

// Prediction is the displayable outcome of a successful single submission.
type Prediction struct {
	Price    float64
	Location string
	Date     civildate.CivilDate
}

// Workflow drives a single-prediction form submission.
type Workflow struct {
	schema    *schema.Schema
	predictor Predictor
	notifier  notify.Notifier
	logger    *zap.Logger
	onResult  func(Prediction)

	state      State
	violations schema.Violations
	result     *Prediction
}

// New constructs a single-prediction workflow in the idle state.
func New(sch *schema.Schema, predictor Predictor, notifier notify.Notifier, logger *zap.Logger) *Workflow {
	if sch == nil {
		sch = schema.New()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		schema:    sch,
		predictor: predictor,
		notifier:  notifier,
		logger:    logger,
		state:     StateIdle,
	}
}

// SetOnResult registers a hook invoked with each new successful prediction,
// the analog of bringing the result card into view.
func (w *Workflow) SetOnResult(fn func(Prediction)) {
	w.onResult = fn
}

// State returns the current submission state.
func (w *Workflow) State() State {
	return w.state
}

// Violations returns the field messages from the most recent submit attempt.
func (w *Workflow) Violations() schema.Violations {
	return w.violations
}

// Result returns the currently displayed prediction, or nil if none has
// succeeded yet. A failed submission never clears it.
func (w *Workflow) Result() *Prediction {
	return w.result
}

// Submit validates the request and, if it passes, sends it to the prediction
// service. Validation failures are recorded for inline display and reported
// via ErrValidationFailed without any state change or network call. Transport
// failures move the workflow to the error state and emit an error
// notification, leaving any prior result displayed. Resubmission is allowed
// from every state except submitting.
func (w *Workflow) Submit(ctx context.Context, req schema.PredictionRequest) error {
	if w.state == StateSubmitting {
		return ErrSubmissionInFlight
	}

	w.violations = w.schema.Validate(req)
	if !w.violations.OK() {
		return ErrValidationFailed
	}

	id := uuid.NewString()
	payload := req.Payload()
	w.state = StateSubmitting
	w.logger.Info("submitting prediction request",
		zap.String("op", "workflow.Submit"),
		zap.String("submission", id),
		zap.String("location", payload.Location),
		zap.String("date", payload.Date),
	)

	price, err := w.predictor.Predict(ctx, payload)
	if err != nil {
		w.state = StateError
		w.logger.Error("prediction request failed",
			zap.String("op", "workflow.Submit"),
			zap.String("submission", id),
			zap.Error(err),
		)
		w.notifier.Notify(notify.SeverityError, "Error", "Failed to generate prediction. Please try again.")
		return fmt.Errorf("prediction failed: %w", err)
	}

	result := Prediction{
		Price:    price,
		Location: req.Location,
		Date:     civildate.At(req.Date),
	}
	w.result = &result
	w.state = StateSuccess
	w.logger.Info("prediction received",
		zap.String("op", "workflow.Submit"),
		zap.String("submission", id),
		zap.Float64("price", price),
	)
	w.notifier.Notify(notify.SeveritySuccess, "Success", "Prediction generated successfully!")
	if w.onResult != nil {
		w.onResult(result)
	}
	return nil
}
