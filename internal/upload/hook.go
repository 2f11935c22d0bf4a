package upload

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"legalsim-backend/internal/client"
)

const (
	defaultTick       = 500 * time.Millisecond
	defaultResetDelay = time.Second
	maxStep           = 10.0
	pendingCap        = 90.0
	progressBuffer    = 64
)

// API is the subset of the functions client the uploader needs.
type API interface {
	ProcessDocument(ctx context.Context, req client.ProcessRequest) (client.ProcessResponse, error)
	GetDocumentAnalysis(ctx context.Context, documentID string) (client.DocumentAnalysis, error)
}

// Estimate is a synthetic progress value. It is never derived from server progress.
type Estimate struct {
	Percent   float64
	Estimated bool
}

// Outcome is the settled result of one upload.
type Outcome struct {
	Result client.ProcessResponse
	Err    error
}

// Uploader runs analysis calls and animates an estimated progress value while they are pending.
type Uploader struct {
	API        API
	Notifier   Notifier
	Tick       time.Duration
	ResetDelay time.Duration
	// Step returns the next increment in [0, 10).
	Step func() float64
}

// Task is one in-flight upload. Each call to Start gets its own Task.
type Task struct {
	progress  chan Estimate
	done      chan Outcome
	discarded atomic.Bool
	mu        sync.Mutex
}

// Progress streams estimates until the task resets to 0, then closes.
func (t *Task) Progress() <-chan Estimate { return t.progress }

// Done yields the outcome once, then closes. A discarded task closes without a value.
func (t *Task) Done() <-chan Outcome { return t.done }

// Discard drops the outcome. The request itself keeps running to completion.
func (t *Task) Discard() { t.discarded.Store(true) }

// publish never blocks; when the buffer is full the oldest estimate is dropped.
func (t *Task) publish(percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := Estimate{Percent: percent, Estimated: true}
	for {
		select {
		case t.progress <- e:
			return
		default:
		}
		select {
		case <-t.progress:
		default:
		}
	}
}

// Start submits req and returns immediately. The call runs on a context that keeps ctx's
// values but ignores its cancellation.
func (u *Uploader) Start(ctx context.Context, req client.ProcessRequest) *Task {
	t := &Task{
		progress: make(chan Estimate, progressBuffer),
		done:     make(chan Outcome, 1),
	}
	callCtx := context.WithoutCancel(ctx)

	results := make(chan Outcome, 1)
	go func() {
		resp, err := u.API.ProcessDocument(callCtx, req)
		results <- Outcome{Result: resp, Err: err}
	}()

	go u.run(t, results)
	return t
}

func (u *Uploader) run(t *Task, results <-chan Outcome) {
	ticker := time.NewTicker(u.tick())
	defer ticker.Stop()

	percent := 0.0
	t.publish(percent)

	var out Outcome
wait:
	for {
		select {
		case <-ticker.C:
			percent += u.step()
			if percent > pendingCap {
				percent = pendingCap
			}
			t.publish(percent)
		case out = <-results:
			break wait
		}
	}
	ticker.Stop()
	t.publish(100)

	// A discarded task settles silently.
	if !t.discarded.Load() {
		if out.Err != nil {
			u.notify(failureNotification(titleFailed, out.Err))
		} else {
			u.notify(successNotification())
		}
		t.done <- out
	}
	close(t.done)

	time.Sleep(u.resetDelay())
	t.publish(0)
	close(t.progress)
}

// Fetch loads a stored analysis, notifying on failure.
func (u *Uploader) Fetch(ctx context.Context, documentID string) (client.DocumentAnalysis, error) {
	out, err := u.API.GetDocumentAnalysis(ctx, documentID)
	if err != nil {
		u.notify(failureNotification(titleFetchFailed, err))
		return client.DocumentAnalysis{}, err
	}
	return out, nil
}

func (u *Uploader) notify(n Notification) {
	if u.Notifier != nil {
		u.Notifier.Notify(n)
	}
}

func (u *Uploader) tick() time.Duration {
	if u.Tick > 0 {
		return u.Tick
	}
	return defaultTick
}

func (u *Uploader) resetDelay() time.Duration {
	if u.ResetDelay > 0 {
		return u.ResetDelay
	}
	return defaultResetDelay
}

func (u *Uploader) step() float64 {
	if u.Step != nil {
		return u.Step()
	}
	return rand.Float64() * maxStep
}
