package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"content-assistant/internal/retry"
)

// TaskType enumerates supported task categories.
type TaskType string

const TaskTypeProcess TaskType = "process"

const defaultMaxAttempts = 5

// Task is a unit of work delivered to workers.
type Task struct {
	ID          uuid.UUID
	Type        TaskType
	Payload     []byte
	Attempts    int
	MaxAttempts int
	NotBefore   time.Time
}

// ProcessPayload asks a worker to run the selected operations for a job.
type ProcessPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// NewProcessTask builds a process task for the given job.
func NewProcessTask(jobID uuid.UUID) (Task, error) {
	if jobID == uuid.Nil {
		return Task{}, errors.New("job id required")
	}
	body, err := json.Marshal(ProcessPayload{JobID: jobID})
	if err != nil {
		return Task{}, err
	}
	return Task{ID: uuid.New(), Type: TaskTypeProcess, Payload: body, MaxAttempts: defaultMaxAttempts}, nil
}

// DecodeProcessPayload reads the payload of a process task.
func DecodeProcessPayload(task Task) (ProcessPayload, error) {
	if task.Type != TaskTypeProcess {
		return ProcessPayload{}, fmt.Errorf("unexpected task type %q", task.Type)
	}
	var p ProcessPayload
	if err := json.Unmarshal(task.Payload, &p); err != nil {
		return ProcessPayload{}, fmt.Errorf("decode process payload: %w", err)
	}
	if p.JobID == uuid.Nil {
		return ProcessPayload{}, errors.New("process payload missing job id")
	}
	return p, nil
}

type Handler func(context.Context, Task) error

// Queue exposes a minimal contract to enqueue and consume tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
	Close() error
}

// EnqueueWithRetry attempts to enqueue with retries and jittered exponential backoff.
func EnqueueWithRetry(ctx context.Context, q Queue, task Task, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = q.Enqueue(ctx, task); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Jitter(retry.ExponentialBackoff(attempt, base), 0.2)):
		}
	}
	return fmt.Errorf("enqueue %s task after %d attempts: %w", task.Type, attempts, err)
}
