package labtest

import "fmt"

// Result is the stable five-field output schema consumed by both the batch
// artifacts and the HTTP service.
type Result struct {
	TestName          string `json:"test_name"`
	TestValue         string `json:"test_value"`
	BioReferenceRange string `json:"bio_reference_range"`
	TestUnit          string `json:"test_unit"`
	LabTestOutOfRange bool   `json:"lab_test_out_of_range"`
}

// MissingFieldError marks a record that reached the formatter without a
// required field. The parser never emits such a record, so this is an
// upstream contract violation and is never masked with defaults.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record is missing required field %q", e.Field)
}

// Format projects records onto the output schema. The returned slice is
// always non-nil so zero records serialize as an empty array.
func Format(records []Record) ([]Result, error) {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			return nil, &MissingFieldError{Field: "test_name"}
		}
		if rec.Value == "" {
			return nil, &MissingFieldError{Field: "test_value"}
		}
		results = append(results, Result{
			TestName:          rec.Name,
			TestValue:         rec.Value,
			BioReferenceRange: rec.RefRange,
			TestUnit:          rec.Unit,
			LabTestOutOfRange: rec.OutOfRange,
		})
	}
	return results, nil
}
