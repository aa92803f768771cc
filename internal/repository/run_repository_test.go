package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestRunRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewRunRepository(db)

	id, err := repo.Create(&Run{
		ProjectA:     "PRA",
		RunA:         12,
		ProjectB:     "PRB",
		RunB:         3,
		Status:       "running",
		TotalResults: 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, repo.UpdateProgress(id, models.MigrationSummary{Copied: 2, Skipped: 1}))

	run, err := repo.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "running", run.Status)
	assert.Equal(t, 2, run.Copied)
	assert.Equal(t, 1, run.Skipped)
	assert.Nil(t, run.CompletedAt)

	final := models.MigrationSummary{Copied: 3, Skipped: 1, Errors: 1}
	require.NoError(t, repo.Complete(id, "completed_with_errors", final))

	run, err = repo.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "completed_with_errors", run.Status)
	assert.Equal(t, 3, run.Copied)
	assert.Equal(t, 1, run.Errors)
	assert.Equal(t, 5, run.TotalResults)
	assert.NotNil(t, run.CompletedAt)
}

func TestRunRepository_GetRuns(t *testing.T) {
	db := newTestDB(t)
	repo := NewRunRepository(db)

	first, err := repo.Create(&Run{ProjectA: "PRA", RunA: 1, ProjectB: "PRB", RunB: 2, Status: "running"})
	require.NoError(t, err)
	second, err := repo.Create(&Run{ProjectA: "PRA", RunA: 3, ProjectB: "PRC", RunB: 4, Status: "running"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := repo.GetRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestResultCopyRepository_RecordsPerItemOutcomes(t *testing.T) {
	db := newTestDB(t)
	runRepo := NewRunRepository(db)
	copyRepo := NewResultCopyRepository(db)

	runId, err := runRepo.Create(&Run{ProjectA: "PRA", RunA: 12, ProjectB: "PRB", RunB: 3, Status: "running"})
	require.NoError(t, err)

	require.NoError(t, copyRepo.Create(&ResultCopy{
		RunId:        runId,
		SourceCaseId: 10,
		MappingValue: "1001",
		DestCaseId:   101,
		Outcome:      OutcomeCopied,
	}))
	require.NoError(t, copyRepo.Create(&ResultCopy{
		RunId:        runId,
		SourceCaseId: 11,
		Outcome:      OutcomeSkipped,
		ErrorMessage: "no mapping value",
	}))

	copies, err := copyRepo.GetByRunId(runId)
	require.NoError(t, err)
	require.Len(t, copies, 2)

	assert.Equal(t, OutcomeCopied, copies[0].Outcome)
	assert.Equal(t, "1001", copies[0].MappingValue)
	assert.Equal(t, int64(101), copies[0].DestCaseId)

	assert.Equal(t, OutcomeSkipped, copies[1].Outcome)
	assert.Equal(t, "no mapping value", copies[1].ErrorMessage)

	other, err := copyRepo.GetByRunId("missing-run")
	require.NoError(t, err)
	assert.Empty(t, other)
}
