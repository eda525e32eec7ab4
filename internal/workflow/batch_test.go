package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/netojaycee/forecast-prices-app/internal/notify"
	"github.com/netojaycee/forecast-prices-app/internal/predictor"
	"github.com/netojaycee/forecast-prices-app/internal/upload"
	"github.com/netojaycee/forecast-prices-app/pkg/constants"
	"github.com/netojaycee/forecast-prices-app/pkg/testutil"
)

type stubBatchPredictor struct {
	predictions []predictor.LocationPrice
	err         error
	calls       int
	onCall      func()
}

func (s *stubBatchPredictor) PredictBatch(ctx context.Context, filename string, file io.Reader) ([]predictor.LocationPrice, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall()
	}
	return s.predictions, s.err
}

func testFile() upload.File {
	return upload.File{Name: "indicators.xlsx", Size: 1 << 20, ContentType: constants.MIMETypeXLSX}
}

func testContent() io.Reader {
	return bytes.NewReader([]byte("workbook-bytes"))
}

func TestBatchSubmitSuccessPreservesOrder(t *testing.T) {
	expected := []predictor.LocationPrice{
		{Location: "Lagos", Price: 210},
		{Location: "Abuja", Price: 198},
	}
	pred := &stubBatchPredictor{predictions: expected}
	notifier := &recordingNotifier{}
	w := NewBatch(pred, nil, notifier, nil)

	var observed []predictor.LocationPrice
	w.SetOnResult(func(p []predictor.LocationPrice) { observed = p })

	if err := w.Submit(context.Background(), testFile(), testContent()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if w.State() != StateSuccess {
		t.Errorf("state = %s, expected success", w.State())
	}
	chart := w.Chart()
	if len(chart) != len(expected) {
		t.Fatalf("Chart() has %d entries, expected %d", len(chart), len(expected))
	}
	for i, want := range expected {
		if chart[i] != want {
			t.Errorf("Chart()[%d] = %+v, expected %+v (service order must be preserved)", i, chart[i], want)
		}
	}
	if len(observed) != len(expected) {
		t.Errorf("onResult hook observed %d entries, expected %d", len(observed), len(expected))
	}
	if len(notifier.descriptions) != 1 || notifier.descriptions[0] != "File processed successfully!" {
		t.Errorf("notifications = %v, expected success toast", notifier.descriptions)
	}
}

func TestBatchSubmitEnvelopeRejection(t *testing.T) {
	pred := &stubBatchPredictor{}
	notifier := &recordingNotifier{}
	w := NewBatch(pred, nil, notifier, nil)

	tests := []struct {
		name    string
		file    upload.File
		message string
	}{
		{
			name:    "oversized file",
			file:    upload.File{Name: "big.xlsx", Size: 6 << 20, ContentType: constants.MIMETypeXLSX},
			message: "File size must be less than 5MB",
		},
		{
			name:    "wrong type",
			file:    upload.File{Name: "notes.txt", Size: 1 << 20, ContentType: "text/plain"},
			message: "File must be an Excel file (.xlsx or .xls)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.Submit(context.Background(), tt.file, testContent())
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Submit() error = %v, expected ErrValidationFailed", err)
			}
			if w.Violations()[upload.FieldName] != tt.message {
				t.Errorf("Violations() = %v, expected %q", w.Violations(), tt.message)
			}
		})
	}

	if pred.calls != 0 {
		t.Errorf("predictor called %d times, rejected files must not be uploaded", pred.calls)
	}
	if w.State() != StateIdle {
		t.Errorf("state = %s, expected idle", w.State())
	}
	if len(notifier.severities) != 0 {
		t.Errorf("notifications = %v, envelope errors are inline only", notifier.severities)
	}
}

func TestBatchSubmitFailureKeepsPreviousChart(t *testing.T) {
	pred := &stubBatchPredictor{predictions: []predictor.LocationPrice{{Location: "Kano", Price: 175}}}
	notifier := &recordingNotifier{}
	w := NewBatch(pred, nil, notifier, nil)

	if err := w.Submit(context.Background(), testFile(), testContent()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	pred.err = errors.New("gateway timeout")
	if err := w.Submit(context.Background(), testFile(), testContent()); err == nil {
		t.Fatalf("Submit() expected error")
	}

	if w.State() != StateError {
		t.Errorf("state = %s, expected error", w.State())
	}
	if kano := testutil.FindPrediction(w.Chart(), "Kano"); kano == nil || kano.Price != 175 {
		t.Errorf("Chart() = %v, previous chart must remain displayed", w.Chart())
	}
	if last := notifier.descriptions[len(notifier.descriptions)-1]; last != "Failed to process file. Please try again." {
		t.Errorf("last notification = %q", last)
	}
}

func TestBatchSubmitHonorsConfiguredSizeCap(t *testing.T) {
	// A workflow built with a tighter cap rejects files the service limit
	// would still allow, and the inline message names the configured cap.
	pred := &stubBatchPredictor{}
	w := NewBatch(pred, upload.NewValidator(2<<20), notify.Nop{}, nil)

	file := upload.File{Name: "indicators.xlsx", Size: 3 << 20, ContentType: constants.MIMETypeXLSX}
	err := w.Submit(context.Background(), file, testContent())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Submit() error = %v, expected ErrValidationFailed", err)
	}
	if w.Violations()[upload.FieldName] != "File size must be less than 2MB" {
		t.Errorf("Violations() = %v, expected configured cap message", w.Violations())
	}
	if pred.calls != 0 {
		t.Errorf("predictor called %d times, rejected files must not be uploaded", pred.calls)
	}

	if err := w.Submit(context.Background(), testFile(), testContent()); err != nil {
		t.Fatalf("Submit() error = %v, a file under the cap must pass", err)
	}
}

func TestBatchSubmitRejectedWhileInFlight(t *testing.T) {
	pred := &stubBatchPredictor{}
	w := NewBatch(pred, nil, notify.Nop{}, nil)

	var inFlightErr error
	pred.onCall = func() {
		inFlightErr = w.Submit(context.Background(), testFile(), testContent())
	}

	if err := w.Submit(context.Background(), testFile(), testContent()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !errors.Is(inFlightErr, ErrSubmissionInFlight) {
		t.Errorf("in-flight Submit() error = %v, expected ErrSubmissionInFlight", inFlightErr)
	}
	if pred.calls != 1 {
		t.Errorf("predictor called %d times, expected 1", pred.calls)
	}
}

func TestBatchSubmitEmptyCollectionIsSuccess(t *testing.T) {
	// All-or-nothing: a 2xx response with an empty collection is still a
	// success and replaces the previous chart.
	pred := &stubBatchPredictor{predictions: []predictor.LocationPrice{{Location: "Oyo", Price: 188}}}
	w := NewBatch(pred, nil, notify.Nop{}, nil)

	if err := w.Submit(context.Background(), testFile(), testContent()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	pred.predictions = nil
	if err := w.Submit(context.Background(), testFile(), testContent()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if w.State() != StateSuccess {
		t.Errorf("state = %s, expected success", w.State())
	}
	if chart := w.Chart(); len(chart) != 0 {
		t.Errorf("Chart() = %v, expected replacement by empty collection", chart)
	}
}
