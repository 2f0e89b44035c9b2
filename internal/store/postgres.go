package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"content-assistant/internal/assistant"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Advisory lock keeps gateway and workers from migrating concurrently.
	const lockID = 704211093

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}

	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			input TEXT NOT NULL,
			selection JSONB NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS job_results (
			job_id UUID PRIMARY KEY REFERENCES jobs(id) ON DELETE CASCADE,
			summary TEXT,
			titles TEXT[],
			answer TEXT,
			recommendations TEXT[],
			failed TEXT[] NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs(status);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, text string, sel assistant.Selection) (Job, error) {
	selJSON, err := json.Marshal(sel)
	if err != nil {
		return Job{}, fmt.Errorf("marshal selection: %w", err)
	}
	id := uuid.New()
	now := time.Now()
	_, err = s.db.ExecContext(ctx, `INSERT INTO jobs(id, status, input, selection, created_at, updated_at) VALUES($1,$2,$3,$4,$5,$5)`,
		id, StatusPending, text, selJSON, now)
	if err != nil {
		return Job{}, err
	}
	return Job{ID: id, Status: StatusPending, Text: text, Selection: sel, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (Job, error) {
	var (
		job     Job
		selJSON []byte
		summary sql.NullString
		answer  sql.NullString
		titles  []string
		recs    []string
		failed  []string
		hasRes  bool
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT j.status, j.input, j.selection, j.error, j.created_at, j.updated_at,
			r.job_id IS NOT NULL, r.summary, r.titles, r.answer, r.recommendations, COALESCE(r.failed, '{}')
		FROM jobs j
		LEFT JOIN job_results r ON r.job_id = j.id
		WHERE j.id = $1`, id)
	err := row.Scan(&job.Status, &job.Text, &selJSON, &job.Error, &job.CreatedAt, &job.UpdatedAt,
		&hasRes, &summary, pq.Array(&titles), &answer, pq.Array(&recs), pq.Array(&failed))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	if err := json.Unmarshal(selJSON, &job.Selection); err != nil {
		return Job{}, fmt.Errorf("decode selection for job %s: %w", id, err)
	}
	job.ID = id
	if hasRes {
		job.Result = &Result{
			Summary:         nullString(summary),
			Titles:          titles,
			Answer:          nullString(answer),
			Recommendations: recs,
			Failed:          failed,
		}
	}
	return job, nil
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status JobStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// SaveResult stores the results and marks the job done in one transaction.
func (s *PostgresStore) SaveResult(ctx context.Context, id uuid.UUID, result Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO job_results(job_id, summary, titles, answer, recommendations, failed)
		VALUES($1,$2,$3,$4,$5,$6)
		ON CONFLICT (job_id) DO UPDATE SET summary=excluded.summary, titles=excluded.titles,
			answer=excluded.answer, recommendations=excluded.recommendations, failed=excluded.failed`,
		id, result.Summary, pq.Array(result.Titles), result.Answer, pq.Array(result.Recommendations), pq.Array(nonNil(result.Failed)))
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE jobs SET status=$1, updated_at=now() WHERE id=$2`, StatusDone, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return tx.Commit()
}

func (s *PostgresStore) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET status=$1, error=$2, updated_at=now() WHERE id=$3`, StatusFailed, reason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
