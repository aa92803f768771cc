package service

import "github.com/Richardmlacerda/qase-poc-rml/internal/models"

// Destination status codes.
const (
	StatusPassed  int64 = 1
	StatusSkipped int64 = 2
	StatusBlocked int64 = 3
	StatusOther   int64 = 4
	StatusFailed  int64 = 5
)

var statusCodes = map[string]int64{
	"passed":  StatusPassed,
	"failed":  StatusFailed,
	"skipped": StatusSkipped,
	"blocked": StatusBlocked,
}

// TranslateStatus converts a source status to the destination's numeric
// status code. A numeric input passes through unchanged: when the source
// already speaks numbers it is assumed to use the destination vocabulary.
// Anything unrecognized maps to StatusOther, so the function never fails.
//
// The write path posts the lower-cased status name instead, because the
// result endpoint accepts names; this table is kept for destinations that
// only take codes.
func TranslateStatus(v models.StatusValue) int64 {
	if n, ok := v.Numeric(); ok {
		return n
	}
	if code, ok := statusCodes[v.Normalized()]; ok {
		return code
	}
	return StatusOther
}
