package models

type Result struct {
	Hash    string
	RunId   int64
	CaseId  int64
	Status  StatusValue
	Comment string
}

// NewResult is the payload written into the destination run. Status is the
// lower-cased status name; the destination accepts names on write.
type NewResult struct {
	CaseId  int64
	Status  string
	Comment string
}
