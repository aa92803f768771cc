package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
)

// Run is the history record of one migration invocation.
type Run struct {
	Id           string
	ProjectA     string
	RunA         int64
	ProjectB     string
	RunB         int64
	Status       string
	TotalResults int
	Copied       int
	Skipped      int
	Errors       int
	StartedAt    time.Time
	CompletedAt  *time.Time
}

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run record and returns its generated id.
func (r *RunRepository) Create(run *Run) (string, error) {
	id := uuid.NewString()

	query := `
	INSERT INTO runs (id, project_a, run_a, project_b, run_b, status, total_results)
        VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		run.ProjectA,
		run.RunA,
		run.ProjectB,
		run.RunB,
		run.Status,
		run.TotalResults,
	)

	if err != nil {
		return "", fmt.Errorf("create run record: %w", err)
	}

	return id, nil
}

func (r *RunRepository) UpdateProgress(id string, summary models.MigrationSummary) error {
	query := `UPDATE runs SET copied = ?, skipped = ?, errors = ? WHERE id = ?`
	_, err := r.db.Exec(query, summary.Copied, summary.Skipped, summary.Errors, id)
	return err
}

func (r *RunRepository) Complete(id string, status string, summary models.MigrationSummary) error {
	query := `
	UPDATE runs SET status = ?, copied = ?, skipped = ?, errors = ?, completed_at = CURRENT_TIMESTAMP
        WHERE id = ?
	`
	_, err := r.db.Exec(query, status, summary.Copied, summary.Skipped, summary.Errors, id)
	return err
}

func (r *RunRepository) GetRun(id string) (Run, error) {
	query := `
	SELECT id, project_a, run_a, project_b, run_b, status, total_results,
	       copied, skipped, errors, started_at, completed_at
        FROM runs WHERE id = ?
	`

	var run Run
	err := r.db.QueryRow(query, id).Scan(
		&run.Id,
		&run.ProjectA,
		&run.RunA,
		&run.ProjectB,
		&run.RunB,
		&run.Status,
		&run.TotalResults,
		&run.Copied,
		&run.Skipped,
		&run.Errors,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}

	return run, nil
}

func (r *RunRepository) GetRuns() ([]Run, error) {
	query := `
	SELECT id, project_a, run_a, project_b, run_b, status, total_results,
	       copied, skipped, errors, started_at, completed_at
        FROM runs ORDER BY started_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("get runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.Id,
			&run.ProjectA,
			&run.RunA,
			&run.ProjectB,
			&run.RunB,
			&run.Status,
			&run.TotalResults,
			&run.Copied,
			&run.Skipped,
			&run.Errors,
			&run.StartedAt,
			&run.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *RunRepository) UpdateTotalResults(id string, total int) error {
	query := `UPDATE runs SET total_results = ? WHERE id = ?`
	_, err := r.db.Exec(query, total, id)
	return err
}
