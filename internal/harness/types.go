package harness

// Result is the outcome of a scenario execution.
type Result struct {
	Name string `json:"name"`

	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// SQL is the compiled statement, empty when compilation failed.
	SQL string `json:"sql,omitempty"`

	// SpecHash fingerprints the compiled mapping.
	SpecHash string `json:"spec_hash,omitempty"`

	// CompileError is the compiler's error message, if any.
	CompileError string `json:"compile_error,omitempty"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Summary counts scenario outcomes.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Summarize counts passing and failing results.
func Summarize(results []*Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
