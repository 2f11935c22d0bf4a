package simulator

import (
	"errors"
	"fmt"
	"sync"

	"legalsim-backend/internal/client"
)

// Step is a wizard screen.
type Step string

const (
	StepUpload  Step = "upload"
	StepAnalyze Step = "analyze"
	StepResults Step = "results"
)

var (
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrUnknownSample     = errors.New("unknown sample document")
)

// Wizard drives the upload -> analyze -> results flow. It is safe for concurrent use.
type Wizard struct {
	mu       sync.Mutex
	step     Step
	title    string
	progress float64
	result   *client.ProcessResponse
	lastErr  error
}

// NewWizard starts on the upload step.
func NewWizard() *Wizard {
	return &Wizard{step: StepUpload}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SelectSample picks a sample document and moves straight to analyze.
func (w *Wizard) SelectSample(id string) (Sample, error) {
	sample, ok := SampleByID(id)
	if !ok {
		return Sample{}, fmt.Errorf("%w: %s", ErrUnknownSample, id)
	}
	if err := w.begin(sample.Title); err != nil {
		return Sample{}, err
	}
	return sample, nil
}

// UploadFile records an uploaded file and moves to analyze.
func (w *Wizard) UploadFile(title string) error {
	return w.begin(title)
}

func (w *Wizard) begin(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepUpload {
		return w.invalid(StepAnalyze)
	}
	w.step = StepAnalyze
	w.title = title
	w.progress = 0
	w.result = nil
	w.lastErr = nil
	return nil
}

// SetProgress stores the latest estimated percentage while analyzing.
func (w *Wizard) SetProgress(percent float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepAnalyze {
		return w.invalid(StepAnalyze)
	}
	w.progress = percent
	return nil
}

// Complete moves to results with a successful outcome.
func (w *Wizard) Complete(res client.ProcessResponse) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepAnalyze {
		return w.invalid(StepResults)
	}
	w.step = StepResults
	w.progress = 100
	w.result = &res
	return nil
}

// Fail returns to upload after a failed analysis.
func (w *Wizard) Fail(cause error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepAnalyze {
		return w.invalid(StepUpload)
	}
	w.step = StepUpload
	w.progress = 0
	w.lastErr = cause
	return nil
}

// Back leaves results for a fresh upload.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepResults {
		return w.invalid(StepUpload)
	}
	w.step = StepUpload
	w.progress = 0
	w.result = nil
	w.title = ""
	return nil
}

// Snapshot is a read-only copy of the wizard state.
type Snapshot struct {
	Step     Step
	Title    string
	Progress float64
	Result   *client.ProcessResponse
	LastErr  error
}

// Snapshot returns the current state.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Step:     w.step,
		Title:    w.title,
		Progress: w.progress,
		Result:   w.result,
		LastErr:  w.lastErr,
	}
}

func (w *Wizard) invalid(to Step) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.step, to)
}
