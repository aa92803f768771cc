package qase

import (
	"encoding/json"

	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
)

// containerKeys are the envelope keys a paginated response may nest its item
// list under, tried in priority order. The first one present wins.
var containerKeys = []string{"entities", "items", "results", "cases"}

type listEnvelope struct {
	Status bool                       `json:"status"`
	Result map[string]json.RawMessage `json:"result"`
}

type entityEnvelope struct {
	Status bool            `json:"status"`
	Result json.RawMessage `json:"result"`
}

type qaseError struct {
	Status       bool   `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

type qaseCustomField struct {
	Id    int64 `json:"id"`
	Value any   `json:"value"`
}

type qaseCase struct {
	Id           int64             `json:"id"`
	Title        string            `json:"title"`
	CustomFields []qaseCustomField `json:"custom_fields"`
}

func (c qaseCase) toModel() models.Case {
	fields := make([]models.CustomFieldValue, len(c.CustomFields))
	for i, cf := range c.CustomFields {
		fields[i] = models.CustomFieldValue{FieldId: cf.Id, Value: cf.Value}
	}
	return models.Case{
		Id:           c.Id,
		Title:        c.Title,
		CustomFields: fields,
	}
}

type qaseResult struct {
	Hash    string             `json:"hash"`
	RunId   int64              `json:"run_id"`
	CaseId  int64              `json:"case_id"`
	Status  models.StatusValue `json:"status"`
	Comment string             `json:"comment"`
}

func (r qaseResult) toModel() models.Result {
	return models.Result{
		Hash:    r.Hash,
		RunId:   r.RunId,
		CaseId:  r.CaseId,
		Status:  r.Status,
		Comment: r.Comment,
	}
}

type createResultRequest struct {
	CaseId  int64  `json:"case_id"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}
