package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"content-assistant/internal/retry"
)

const subjectPrefix = "tasks."

// Subject returns the NATS subject that carries tasks of the given type.
func Subject(taskType TaskType) string {
	return subjectPrefix + string(taskType)
}

// NewNATS constructs a queue on top of NATS core queue groups.
func NewNATS(log *slog.Logger, nc *nats.Conn) Queue {
	return &natsQueue{log: log, nc: nc, retryBase: time.Second}
}

type natsQueue struct {
	log       *slog.Logger
	nc        *nats.Conn
	retryBase time.Duration
}

func (q *natsQueue) Enqueue(_ context.Context, task Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Type == "" {
		return errors.New("task type required")
	}
	body, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.nc.Publish(Subject(task.Type), body)
}

// Worker consumes tasks until ctx is cancelled. Workers sharing a task type
// form a queue group so each task is handled once.
func (q *natsQueue) Worker(ctx context.Context, taskType TaskType, handler Handler) error {
	group := "workers-" + string(taskType)
	sub, err := q.nc.QueueSubscribe(Subject(taskType), group, func(msg *nats.Msg) {
		q.handleMessage(ctx, msg.Data, handler)
	})
	if err != nil {
		return err
	}
	q.log.Info("worker subscribed", "subject", Subject(taskType), "group", group)
	<-ctx.Done()
	return sub.Drain()
}

func (q *natsQueue) handleMessage(ctx context.Context, data []byte, handler Handler) {
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		q.log.Error("failed to decode task", "err", err)
		return
	}

	if wait := time.Until(task.NotBefore); wait > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	if err := handler(ctx, task); err != nil {
		q.retryTask(ctx, task, err)
	}
}

func (q *natsQueue) retryTask(ctx context.Context, task Task, handlerErr error) {
	task.Attempts++
	if task.MaxAttempts == 0 {
		task.MaxAttempts = defaultMaxAttempts
	}

	if task.Attempts >= task.MaxAttempts {
		q.log.Error("task permanently failed", "id", task.ID, "type", task.Type, "attempts", task.Attempts, "err", handlerErr)
		return
	}
	task.NotBefore = time.Now().Add(retry.Jitter(retry.ExponentialBackoff(task.Attempts, q.retryBase), 0.2))
	if err := q.Enqueue(ctx, task); err != nil {
		q.log.Error("failed to re-enqueue task", "id", task.ID, "type", task.Type, "original_err", handlerErr, "enqueue_err", err)
		return
	}
	q.log.Warn("task scheduled for retry", "id", task.ID, "type", task.Type, "attempt", task.Attempts, "not_before", task.NotBefore)
}

func (q *natsQueue) Close() error {
	if q.nc == nil || q.nc.IsClosed() {
		return nil
	}
	return q.nc.Drain()
}
