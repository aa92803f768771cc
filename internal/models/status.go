package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// StatusValue holds a result status as the API returned it: some endpoints
// speak numeric status codes, others status names. Exactly one of the two
// forms is set.
type StatusValue struct {
	isNumeric bool
	num       int64
	text      string
}

func NumericStatus(n int64) StatusValue {
	return StatusValue{isNumeric: true, num: n}
}

func TextStatus(s string) StatusValue {
	return StatusValue{text: s}
}

// Numeric returns the numeric form when the status arrived as a number.
func (v StatusValue) Numeric() (int64, bool) {
	return v.num, v.isNumeric
}

// Normalized is the lower-cased, trimmed string form used on the write path:
// "PASSED" becomes "passed", numeric 5 becomes "5".
func (v StatusValue) Normalized() string {
	if v.isNumeric {
		return strconv.FormatInt(v.num, 10)
	}
	return strings.ToLower(strings.TrimSpace(v.text))
}

func (v StatusValue) String() string {
	if v.isNumeric {
		return strconv.FormatInt(v.num, 10)
	}
	return v.text
}

func (v *StatusValue) UnmarshalJSON(data []byte) error {
	// Unmarshaling null into an int64 is a silent no-op, so catch it first.
	if string(data) == "null" {
		*v = TextStatus("null")
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumericStatus(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TextStatus(s)
		return nil
	}

	// null or an unexpected shape: keep the raw text so the translator can
	// still route it to the fallback code.
	*v = TextStatus(strings.Trim(string(data), `"`))
	return nil
}

func (v StatusValue) MarshalJSON() ([]byte, error) {
	if v.isNumeric {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}
