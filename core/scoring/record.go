package scoring

// Record is the structured evaluation of one answer across four dimensions,
// or an error sentinel when the evaluation call failed.
type Record struct {
	Communication int      `json:"communication"`
	Technical     int      `json:"technical"`
	Behavioral    int      `json:"behavioral"`
	Structure     int      `json:"structure"`
	Strengths     []string `json:"strengths,omitempty"`
	Improvements  []string `json:"improvements,omitempty"`

	// Error is set instead of the dimensions when evaluation failed. A
	// record with Error set never contributes to aggregates.
	Error string `json:"error,omitempty"`
}

func (r Record) Failed() bool {
	return r.Error != ""
}

// Failure builds an error-sentinel record from err.
func Failure(err error) Record {
	return Record{Error: err.Error()}
}
