package bosonnlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the remote state of a task.
type Status string

const (
	StatusReceived Status = "received"
	StatusRunning  Status = "running"
	StatusDone     Status = "done"
	StatusNotFound Status = "not found"
	StatusError    Status = "error"
)

var (
	// ErrTaskNotFound is returned when the service does not know the task,
	// typically because analysis was never started or the task expired.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskFailed is returned when the service reports an analysis error.
	ErrTaskFailed = errors.New("task analysis failed")
	// ErrTimeout is returned when WaitUntilComplete exhausts its budget.
	ErrTimeout = errors.New("task timed out")
)

const (
	chunkSize    = 100
	baseInterval = time.Second
	maxInterval  = 64 * time.Second
	// pollsPerStep is how many polls run before the interval doubles.
	pollsPerStep = 3
)

// AnalysisParams tunes the remote grouping. Nil fields are left to the
// service defaults (alpha 0.8, beta 0.45).
type AnalysisParams struct {
	// Alpha caps the maximum cluster size.
	Alpha *float64
	// Beta targets the average cluster size.
	Beta *float64
}

// Endpoints is the set of remote calls a task family exposes.
type Endpoints[R any] interface {
	Family() string
	Push(ctx context.Context, taskID string, chunk []Record) error
	Analyze(ctx context.Context, taskID string, params AnalysisParams) error
	Status(ctx context.Context, taskID string) (string, error)
	Result(ctx context.Context, taskID string) ([]R, error)
	Clear(ctx context.Context, taskID string) (bool, error)
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// Task drives one remote analysis job through push, analysis, polling,
// result retrieval and clearing. A Task is not safe for concurrent Push.
type Task[R any] struct {
	id        string
	endpoints Endpoints[R]
	pushed    []Record
	logger    *slog.Logger
	sleep     sleepFunc
}

// NewTask binds a task id to an endpoint family. An empty id is replaced by a
// random UUID. Nothing is sent until Push.
func NewTask[R any](endpoints Endpoints[R], taskID string, logger *slog.Logger) *Task[R] {
	if taskID == "" {
		taskID = uuid.NewString()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Task[R]{
		id:        taskID,
		endpoints: endpoints,
		logger:    logger.With("task_id", taskID, "family", endpoints.Family()),
		sleep:     sleepContext,
	}
}

// ID returns the task identifier.
func (t *Task[R]) ID() string {
	return t.id
}

// Pushed returns a copy of every record submitted so far, in order.
func (t *Task[R]) Pushed() []Record {
	out := make([]Record, len(t.pushed))
	copy(out, t.pushed)
	return out
}

func (t *Task[R]) String() string {
	return fmt.Sprintf("%s task %s", t.endpoints.Family(), t.id)
}

// Push uploads contents in chunks of 100, one chunk at a time. It reports
// false without any network call when contents are empty. A failed chunk
// stops the upload; chunks already sent stay on the server.
func (t *Task[R]) Push(ctx context.Context, contents Contents) (bool, error) {
	records := Normalize(contents)
	if len(records) == 0 {
		return false, nil
	}

	for start := 0; start < len(records); start += chunkSize {
		end := min(start+chunkSize, len(records))
		if err := t.endpoints.Push(ctx, t.id, records[start:end]); err != nil {
			return false, fmt.Errorf("push %s: %w", t, err)
		}
		t.logger.Info("pushed documents", "done", end, "total", len(records))
	}

	t.pushed = append(t.pushed, records...)
	return true, nil
}

// Analysis starts (or restarts) the remote analysis.
func (t *Task[R]) Analysis(ctx context.Context, params AnalysisParams) error {
	if err := t.endpoints.Analyze(ctx, t.id, params); err != nil {
		return fmt.Errorf("analyze %s: %w", t, err)
	}
	t.logger.Info("analysis started")
	return nil
}

// Status returns the remote state. "not found" and "error" are reported as
// ErrTaskNotFound and ErrTaskFailed; transport errors are returned as is.
func (t *Task[R]) Status(ctx context.Context) (Status, error) {
	raw, err := t.endpoints.Status(ctx, t.id)
	if err != nil {
		return "", err
	}

	status := Status(strings.ToLower(raw))
	switch status {
	case StatusNotFound:
		return status, fmt.Errorf("%s: %w", t, ErrTaskNotFound)
	case StatusError:
		return status, fmt.Errorf("%s: %w", t, ErrTaskFailed)
	}

	t.logger.Info("task status", "status", string(status))
	return status, nil
}

// WaitUntilComplete polls Status until the task is done. The interval starts
// at one second (or timeout, if smaller) and doubles after every third poll up
// to 64 seconds. A timeout <= 0 waits forever.
func (t *Task[R]) WaitUntilComplete(ctx context.Context, timeout time.Duration) error {
	interval := baseInterval
	if timeout > 0 && timeout < interval {
		interval = timeout
	}

	var elapsed time.Duration
	for polls := 1; ; polls++ {
		if err := t.sleep(ctx, interval); err != nil {
			return err
		}

		status, err := t.Status(ctx)
		if err != nil {
			return err
		}
		if status == StatusDone {
			return nil
		}

		elapsed += interval
		if timeout > 0 && elapsed >= timeout {
			return fmt.Errorf("%s after %s: %w", t, elapsed, ErrTimeout)
		}

		if polls%pollsPerStep == 0 && interval < maxInterval {
			interval = min(interval*2, maxInterval)
		}
	}
}

// Result fetches the analysis output as returned by the service.
func (t *Task[R]) Result(ctx context.Context) ([]R, error) {
	result, err := t.endpoints.Result(ctx, t.id)
	if err != nil {
		return nil, fmt.Errorf("fetch result of %s: %w", t, err)
	}
	t.logger.Info("result fetched", "groups", len(result))
	return result, nil
}

// Clear deletes the cached input and output on the server.
func (t *Task[R]) Clear(ctx context.Context) (bool, error) {
	ok, err := t.endpoints.Clear(ctx, t.id)
	if err != nil {
		return false, fmt.Errorf("clear %s: %w", t, err)
	}
	return ok, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
