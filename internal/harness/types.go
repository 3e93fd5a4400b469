package harness

// TraceEvent records one statement executed during the flow.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	SQL   string `json:"sql"`
	Binds []any  `json:"binds,omitempty"`
	// Rows is the number of rows the statement returned.
	Rows int `json:"rows"`
	// Error is the execution error text, if any.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step expectation and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every flow statement in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
