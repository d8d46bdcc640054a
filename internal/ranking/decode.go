package ranking

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

var (
	candidateFields = []string{"name", "text", "degree", "work_experience"}
	jobFields       = []string{"text", "degree", "experience_years"}

	// ErrMissingField is wrapped by InvalidInputError when a record lacks a required key.
	ErrMissingField = errors.New("required field is missing")
)

// DecodeCandidates converts raw records into candidates. Every record must
// carry the name, text, degree and work_experience keys; their values may be nil.
func DecodeCandidates(records []map[string]any) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(records))
	for i, record := range records {
		name := fmt.Sprintf("candidate[%d]", i)
		if record == nil {
			return nil, &InvalidInputError{Record: name, Err: errors.New("record is empty")}
		}

		if err := requireFields(name, record, candidateFields); err != nil {
			return nil, err
		}

		var c Candidate
		if err := decode(record, &c); err != nil {
			return nil, &InvalidInputError{Record: name, Err: err}
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// DecodeJob converts a raw record into a validated job description.
func DecodeJob(record map[string]any) (JobDescription, error) {
	var job JobDescription
	if record == nil {
		return job, &InvalidInputError{Record: "job", Err: errors.New("record is empty")}
	}

	if err := requireFields("job", record, jobFields); err != nil {
		return job, err
	}

	if record["experience_years"] == nil {
		return job, &InvalidInputError{Record: "job", Field: "experience_years", Err: errors.New("value is required")}
	}

	if err := decode(record, &job); err != nil {
		return job, &InvalidInputError{Record: "job", Err: err}
	}

	if err := job.Validate(); err != nil {
		return job, err
	}

	return job, nil
}

func requireFields(name string, record map[string]any, fields []string) error {
	for _, field := range fields {
		if _, ok := record[field]; !ok {
			return &InvalidInputError{Record: name, Field: field, Err: ErrMissingField}
		}
	}
	return nil
}

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
