package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"content-assistant/internal/assistant"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusDone       JobStatus = "done"
	StatusFailed     JobStatus = "failed"
)

var ErrJobNotFound = errors.New("job not found")

// Job is an asynchronous processing request and, once done, its results.
type Job struct {
	ID        uuid.UUID
	Status    JobStatus
	Text      string
	Selection assistant.Selection
	Result    *Result
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result is the persisted form of assistant.Results. Nil fields mean the
// operation was not requested; Failed lists operations that failed, whose
// field then holds the failure message.
type Result struct {
	Summary         *string
	Titles          []string
	Answer          *string
	Recommendations []string
	Failed          []string
}

// FromResults converts operation results for storage.
func FromResults(r assistant.Results) Result {
	var out Result
	if r.Summary != nil {
		s := r.Summary.String()
		out.Summary = &s
		if !r.Summary.OK() {
			out.Failed = append(out.Failed, assistant.KeySummary)
		}
	}
	if r.Titles != nil {
		out.Titles = r.Titles.Strings()
		if !r.Titles.OK() {
			out.Failed = append(out.Failed, assistant.KeyTitles)
		}
	}
	if r.Answer != nil {
		s := r.Answer.String()
		out.Answer = &s
		if !r.Answer.OK() {
			out.Failed = append(out.Failed, assistant.KeyAnswer)
		}
	}
	if r.Recommendations != nil {
		out.Recommendations = r.Recommendations.Strings()
		if !r.Recommendations.OK() {
			out.Failed = append(out.Failed, assistant.KeyRecommendations)
		}
	}
	return out
}

// Store defines persistence of async jobs.
type Store interface {
	CreateJob(ctx context.Context, text string, sel assistant.Selection) (Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status JobStatus) error
	SaveResult(ctx context.Context, id uuid.UUID, result Result) error
	FailJob(ctx context.Context, id uuid.UUID, reason string) error
	Close() error
}
