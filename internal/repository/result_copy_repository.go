package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// Per-item outcomes recorded in result_copies.
const (
	OutcomeCopied  = "copied"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// ResultCopy records what happened to one source result during a run.
type ResultCopy struct {
	Id           int64
	RunId        string
	SourceCaseId int64
	MappingValue string
	DestCaseId   int64
	Outcome      string
	ErrorMessage string
	CreatedAt    time.Time
}

type ResultCopyRepository struct {
	db *sql.DB
}

func NewResultCopyRepository(db *sql.DB) *ResultCopyRepository {
	return &ResultCopyRepository{db: db}
}

func (r *ResultCopyRepository) Create(rc *ResultCopy) error {
	query := `
		INSERT INTO result_copies (run_id, source_case_id, mapping_value, dest_case_id, outcome, error_message)
        VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		rc.RunId,
		rc.SourceCaseId,
		rc.MappingValue,
		rc.DestCaseId,
		rc.Outcome,
		rc.ErrorMessage,
	)

	if err != nil {
		return fmt.Errorf("create result copy record: %w", err)
	}

	return nil
}

func (r *ResultCopyRepository) GetByRunId(runId string) ([]ResultCopy, error) {
	query := `
	SELECT id, run_id, source_case_id, mapping_value, dest_case_id, outcome, error_message, created_at
        FROM result_copies WHERE run_id = ? ORDER BY id
	`

	rows, err := r.db.Query(query, runId)
	if err != nil {
		return nil, fmt.Errorf("get result copies: %w", err)
	}
	defer rows.Close()

	var copies []ResultCopy
	for rows.Next() {
		var c ResultCopy
		err := rows.Scan(
			&c.Id,
			&c.RunId,
			&c.SourceCaseId,
			&c.MappingValue,
			&c.DestCaseId,
			&c.Outcome,
			&c.ErrorMessage,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		copies = append(copies, c)
	}

	return copies, rows.Err()
}
