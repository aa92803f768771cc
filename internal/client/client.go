package client

import "github.com/Richardmlacerda/qase-poc-rml/internal/models"

type CaseReader interface {
	GetAllCases(project string) ([]models.Case, error)
	GetCase(project string, caseId int64) (*models.Case, error)
}

type ResultReader interface {
	GetAllResults(project string) ([]models.Result, error)
}

type ResultWriter interface {
	CreateResult(project string, runId int64, result models.NewResult) error
}

type ProjectStore interface {
	CaseReader
	ResultReader
	ResultWriter
}
