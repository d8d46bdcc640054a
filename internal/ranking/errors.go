package ranking

import "fmt"

// InvalidInputError reports a structurally invalid candidate or job record.
// Missing or malformed values never produce it; only missing keys and
// unusable job records do.
type InvalidInputError struct {
	// Record names the offending record, e.g. "candidate[3]" or "job".
	Record string
	// Field is the offending field key, when known.
	Field string
	Err   error
}

func (e *InvalidInputError) Error() string {
	msg := "invalid input: " + e.Record
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error { return e.Err }
