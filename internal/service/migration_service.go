package service

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Richardmlacerda/qase-poc-rml/internal/client"
	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
	"github.com/Richardmlacerda/qase-poc-rml/internal/ratelimit"
	"github.com/Richardmlacerda/qase-poc-rml/internal/repository"
)

type MigrationService struct {
	store          client.ProjectStore
	mappingFieldId int64
	runRepo        *repository.RunRepository
	copyRepo       *repository.ResultCopyRepository
	writeGate      *ratelimit.Gate
}

func NewMigrationService(
	store client.ProjectStore,
	mappingFieldId int64,
	runRepo *repository.RunRepository,
	copyRepo *repository.ResultCopyRepository,
	writeGate *ratelimit.Gate,
) *MigrationService {
	return &MigrationService{
		store:          store,
		mappingFieldId: mappingFieldId,
		runRepo:        runRepo,
		copyRepo:       copyRepo,
		writeGate:      writeGate,
	}
}

// CopyResults replays the results of projectB's run runB into projectA's run
// runA, correlating cases through their mapping custom field. Each source
// result ends up in exactly one summary counter; a failure on one result
// never stops the rest of the batch. A failure while building the mapping or
// fetching the full result set aborts the whole run with no summary.
func (s *MigrationService) CopyResults(projectA string, runA int64, projectB string, runB int64) (models.MigrationSummary, error) {
	var summary models.MigrationSummary

	fmt.Printf("🚀 Copying results: %s run %d → %s run %d\n", projectB, runB, projectA, runA)

	mapping, err := s.BuildMapping(projectA)
	if err != nil {
		return summary, fmt.Errorf("build mapping: %w", err)
	}

	if len(mapping) == 0 {
		return summary, fmt.Errorf("no mapping values found in project %s", projectA)
	}

	allResults, err := s.store.GetAllResults(projectB)
	if err != nil {
		return summary, fmt.Errorf("fetch results: %w", err)
	}
	fmt.Printf("📋 Fetched %s total results from %s\n", humanize.Comma(int64(len(allResults))), projectB)

	// The result endpoint is not run-scoped, so filter here.
	var resultsB []models.Result
	for _, res := range allResults {
		if res.RunId == runB {
			resultsB = append(resultsB, res)
		}
	}
	fmt.Printf("📋 %d results belong to run %d\n", len(resultsB), runB)

	runId, err := s.runRepo.Create(&repository.Run{
		ProjectA:     projectA,
		RunA:         runA,
		ProjectB:     projectB,
		RunB:         runB,
		Status:       "running",
		TotalResults: len(resultsB),
	})
	if err != nil {
		return summary, fmt.Errorf("record run: %w", err)
	}

	for _, res := range resultsB {
		caseB, err := s.store.GetCase(projectB, res.CaseId)
		if err != nil || caseB == nil {
			fmt.Printf("❌ Could not fetch case %d from %s: %v\n", res.CaseId, projectB, err)
			summary.Errors++
			s.recordItem(runId, res.CaseId, "", 0, repository.OutcomeError, fmt.Sprintf("fetch case: %v", err))
			continue
		}

		mappingValue := ExtractMappingValue(caseB.CustomFields, s.mappingFieldId)
		if mappingValue == "" {
			fmt.Printf("⏭️ Skipping case %d (no mapping value)\n", res.CaseId)
			summary.Skipped++
			s.recordItem(runId, res.CaseId, "", 0, repository.OutcomeSkipped, "no mapping value")
			continue
		}

		targetCaseId, ok := mapping[mappingValue]
		if !ok {
			fmt.Printf("⏭️ No case in %s for mapping value %q\n", projectA, mappingValue)
			summary.Skipped++
			s.recordItem(runId, res.CaseId, mappingValue, 0, repository.OutcomeSkipped, "no destination case")
			continue
		}

		payload := models.NewResult{
			CaseId:  targetCaseId,
			Status:  res.Status.Normalized(),
			Comment: fmt.Sprintf("Copied from %s run %d", projectB, runB),
		}

		if err := s.store.CreateResult(projectA, runA, payload); err != nil {
			fmt.Printf("❌ POST error: %v\n", err)
			summary.Errors++
			s.recordItem(runId, res.CaseId, mappingValue, targetCaseId, repository.OutcomeError, err.Error())
		} else {
			fmt.Printf("✅ Copied %s → %s:%d\n", mappingValue, projectA, targetCaseId)
			summary.Copied++
			s.recordItem(runId, res.CaseId, mappingValue, targetCaseId, repository.OutcomeCopied, "")
		}

		s.runRepo.UpdateProgress(runId, summary)
		s.writeGate.Wait()
	}

	finalStatus := "completed"
	if summary.Errors > 0 {
		finalStatus = "completed_with_errors"
	}
	s.runRepo.Complete(runId, finalStatus, summary)

	return summary, nil
}

// recordItem persists a per-result outcome. History rows are best-effort:
// a write failure here must not disturb the migration itself.
func (s *MigrationService) recordItem(runId string, sourceCaseId int64, mappingValue string, destCaseId int64, outcome, message string) {
	s.copyRepo.Create(&repository.ResultCopy{
		RunId:        runId,
		SourceCaseId: sourceCaseId,
		MappingValue: mappingValue,
		DestCaseId:   destCaseId,
		Outcome:      outcome,
		ErrorMessage: message,
	})
}
