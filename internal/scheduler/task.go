package scheduler

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a task cannot be accepted for execution.
var ErrUnavailable = errors.New("task scheduler unavailable")

// Task is one deferred extraction of a stored document.
type Task struct {
	DocumentID     string
	StorageLocator string
	FileName       string
	RequestID      string
	EnqueuedAt     time.Time
}

// Handler runs a task. Its error is logged and handed to the failure sink, never to the scheduler's caller.
type Handler func(ctx context.Context, task Task) error

// Scheduler accepts tasks for execution outside the caller's lifecycle.
type Scheduler interface {
	Schedule(ctx context.Context, task Task) error
}

// FailureSink receives tasks whose handler failed. It is the seam for dead-lettering or retries.
type FailureSink func(ctx context.Context, task Task, err error)

func (t Task) logFields() map[string]any {
	fields := map[string]any{
		"document_id": t.DocumentID,
		"locator":     t.StorageLocator,
	}
	if t.RequestID != "" {
		fields["request_id"] = t.RequestID
	}
	return fields
}
