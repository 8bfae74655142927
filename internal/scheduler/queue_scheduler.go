package scheduler

import (
	"context"
	"fmt"
	"time"

	"investor-backend/internal/queue"
	"investor-backend/internal/shared/metrics"
)

// QueueScheduler hands tasks to an external queue for an out-of-process worker.
type QueueScheduler struct {
	Client queue.Client
}

// Schedule sends the task as a queue message.
func (s *QueueScheduler) Schedule(ctx context.Context, task Task) error {
	if s.Client == nil {
		return fmt.Errorf("%w: queue client not configured", ErrUnavailable)
	}
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now().UTC()
	}
	if err := s.Client.Send(ctx, MessageFromTask(task)); err != nil {
		metrics.IncTasksRejected()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// MessageFromTask converts a task to its wire form.
func MessageFromTask(task Task) queue.Message {
	return queue.Message{
		DocumentID:     task.DocumentID,
		StorageLocator: task.StorageLocator,
		FileName:       task.FileName,
		RequestID:      task.RequestID,
		EnqueuedAt:     task.EnqueuedAt.UTC().Format(time.RFC3339Nano),
		Version:        queue.MessageVersion,
	}
}

// TaskFromMessage converts a queue message back to a task. An unparsable timestamp is left zero.
func TaskFromMessage(msg queue.Message) Task {
	task := Task{
		DocumentID:     msg.DocumentID,
		StorageLocator: msg.StorageLocator,
		FileName:       msg.FileName,
		RequestID:      msg.RequestID,
	}
	if ts, err := time.Parse(time.RFC3339Nano, msg.EnqueuedAt); err == nil {
		task.EnqueuedAt = ts
	}
	return task
}

var _ Scheduler = (*QueueScheduler)(nil)
