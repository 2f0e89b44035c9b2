package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"content-assistant/internal/app"
	"content-assistant/internal/assistant"
	"content-assistant/internal/httputil"
	"content-assistant/internal/queue"
	"content-assistant/internal/store"
)

type jobResponse struct {
	ID        string         `json:"job_id"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Results   map[string]any `json:"results,omitempty"`
	Failed    []string       `json:"failed,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func newJobResponse(job store.Job) jobResponse {
	resp := jobResponse{
		ID:        job.ID.String(),
		Status:    string(job.Status),
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
	if res := job.Result; res != nil {
		resp.Results = make(map[string]any, 4)
		if res.Summary != nil {
			resp.Results[assistant.KeySummary] = *res.Summary
		}
		if res.Titles != nil {
			resp.Results[assistant.KeyTitles] = res.Titles
		}
		if res.Answer != nil {
			resp.Results[assistant.KeyAnswer] = *res.Answer
		}
		if res.Recommendations != nil {
			resp.Results[assistant.KeyRecommendations] = res.Recommendations
		}
		resp.Failed = res.Failed
	}
	return resp
}

// createJobHandler persists the request and enqueues it for a worker.
func createJobHandler(deps app.Deps, v *httputil.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.JobsEnabled() {
			httputil.Fail(deps.Log, w, "async jobs are not configured", nil, http.StatusServiceUnavailable)
			return
		}
		ctx := r.Context()

		var req processRequest
		if err := httputil.DecodeJSON(r, v, &req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request", err, http.StatusBadRequest)
			return
		}
		sel := req.selection()
		if sel.Empty() {
			httputil.Fail(deps.Log, w, errNoOperation.Error(), errNoOperation, http.StatusBadRequest)
			return
		}

		job, err := deps.Store.CreateJob(ctx, req.Text, sel)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to persist job", err, http.StatusInternalServerError)
			return
		}
		task, err := queue.NewProcessTask(job.ID)
		if err != nil {
			failJob(ctx, deps, w, job.ID, "failed to build task", err)
			return
		}
		if err := queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			failJob(ctx, deps, w, job.ID, "failed to enqueue job; please retry", err)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"job_id": job.ID.String(),
			"status": job.Status,
		})
	}
}

// failJob marks the job failed before answering with a 500.
func failJob(ctx context.Context, deps app.Deps, w http.ResponseWriter, id uuid.UUID, message string, err error) {
	log := deps.Log.With("job_id", id)
	if upErr := deps.Store.FailJob(ctx, id, message); upErr != nil {
		log.Error("failed to mark job failed", "err", upErr)
	}
	httputil.Fail(log, w, message, err, http.StatusInternalServerError)
}

func getJobHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.JobsEnabled() {
			httputil.Fail(deps.Log, w, "async jobs are not configured", nil, http.StatusServiceUnavailable)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid job id", err, http.StatusBadRequest)
			return
		}
		job, err := deps.Store.GetJob(r.Context(), id)
		if errors.Is(err, store.ErrJobNotFound) {
			httputil.Fail(deps.Log, w, "job not found", err, http.StatusNotFound)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load job", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, newJobResponse(job))
	}
}
