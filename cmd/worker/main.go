package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"content-assistant/internal/app"
	"content-assistant/internal/httputil"
	"content-assistant/internal/logger"
	"content-assistant/internal/queue"
	"content-assistant/internal/store"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("failed to load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	deps, err := app.BuildWorker(cfg, log)
	if err != nil {
		log.Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	log.Info("process worker starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeProcess, func(ctx context.Context, task queue.Task) error {
			return handleProcess(ctx, deps, task)
		})
	})

	g.Go(func() error {
		return httputil.ServeHealth(ctx, log, deps.Config.HealthPort, "worker")
	})

	if err := g.Wait(); err != nil {
		log.Error("worker stopped", "err", err)
	}
}

// handleProcess runs the stored selection for one job and saves the results.
// Operation failures are part of the results; the job only fails when the
// store cannot be updated after the last delivery attempt.
func handleProcess(ctx context.Context, deps app.Deps, task queue.Task) error {
	payload, err := queue.DecodeProcessPayload(task)
	if err != nil {
		// Redelivery cannot fix a malformed task.
		deps.Log.Error("dropping malformed task", "id", task.ID, "err", err)
		return nil
	}
	log := deps.Log.With("job_id", payload.JobID, "attempt", task.Attempts+1)

	job, err := deps.Store.GetJob(ctx, payload.JobID)
	if errors.Is(err, store.ErrJobNotFound) {
		log.Warn("job not found; dropping task")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load job %s: %w", payload.JobID, err)
	}
	if job.Status == store.StatusDone || job.Status == store.StatusFailed {
		log.Info("job already finished; skipping", "status", job.Status)
		return nil
	}

	if err := deps.Store.UpdateJobStatus(ctx, job.ID, store.StatusProcessing); err != nil {
		return finish(ctx, deps, log, task, job, fmt.Errorf("mark processing: %w", err))
	}

	results := deps.Assistant.Process(ctx, job.Text, job.Selection)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := deps.Store.SaveResult(ctx, job.ID, store.FromResults(results)); err != nil {
		return finish(ctx, deps, log, task, job, fmt.Errorf("save result: %w", err))
	}
	log.Info("job done", "ok", results.OK())
	return nil
}

// finish returns err for redelivery, or marks the job failed when no
// attempts remain.
func finish(ctx context.Context, deps app.Deps, log *slog.Logger, task queue.Task, job store.Job, err error) error {
	if task.MaxAttempts > 0 && task.Attempts+1 >= task.MaxAttempts {
		if failErr := deps.Store.FailJob(ctx, job.ID, err.Error()); failErr != nil {
			log.Error("failed to mark job failed", "err", failErr)
		}
		log.Error("job failed", "err", err)
		return err
	}
	log.Warn("job attempt failed", "err", err)
	return err
}
