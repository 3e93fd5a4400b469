package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario migrates its models into a fresh database, runs a flow of
// queries through the dialect and asserts on the statement trace and the
// final table contents.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is CUE source declaring the models under a top-level
	// "model" struct. Tables are created in reference order.
	Models string `yaml:"models"`

	// Setup contains steps run before the main flow. Their statements
	// are executed but not traced.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow contains the traced steps.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final trace and state.
	// Supported types: row_count, final_state, trace_count, trace_contains
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one query against a single table.
type Step struct {
	// Op is one of insert, select, update or delete.
	Op string `yaml:"op"`

	// Table is the target table.
	Table string `yaml:"table"`

	// Values holds column values for insert and update. A null value
	// leaves the column to its default on insert.
	Values map[string]any `yaml:"values,omitempty"`

	// Where holds equality filters, joined with AND. A null value
	// matches IS NULL.
	Where map[string]any `yaml:"where,omitempty"`

	// OrderBy lists select sort columns, ascending.
	OrderBy []string `yaml:"order_by,omitempty"`

	// Expect validates the step outcome. Nil means the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Rows is the expected number of returned rows (select only).
	Rows *int `yaml:"rows,omitempty"`

	// Error is a substring the step error must contain. A non-empty
	// value means the step is expected to fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "row_count": count rows of Table matching Where
	// - "final_state": a row of Table matching Where has the Expect values
	// - "trace_count": Kind statements appear exactly Count times
	// - "trace_contains": some traced statement contains SQL
	Type string `yaml:"type"`

	// Table is the table name (row_count, final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies equality filters (row_count, final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected column values (final_state).
	// Subset match - only specified columns are validated.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected number (row_count, trace_count).
	Count int `yaml:"count,omitempty"`

	// Kind is the leading SQL keyword, e.g. INSERT (trace_count).
	Kind string `yaml:"kind,omitempty"`

	// SQL is the statement text to look for (trace_contains).
	SQL string `yaml:"sql,omitempty"`
}

// Step operations.
const (
	OpInsert = "insert"
	OpSelect = "select"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Assertion type constants.
const (
	AssertRowCount      = "row_count"
	AssertFinalState    = "final_state"
	AssertTraceCount    = "trace_count"
	AssertTraceContains = "trace_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Models == "" {
		return fmt.Errorf("models are required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(fmt.Sprintf("setup[%d]", i), &step); err != nil {
			return err
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(fmt.Sprintf("flow[%d]", i), &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(at string, s *Step) error {
	if s.Table == "" {
		return fmt.Errorf("%s: table is required", at)
	}

	switch s.Op {
	case OpInsert, OpUpdate:
		if len(s.Values) == 0 {
			return fmt.Errorf("%s: values are required for %s", at, s.Op)
		}
	case OpSelect, OpDelete:
		if len(s.Values) > 0 {
			return fmt.Errorf("%s: values are not allowed for %s", at, s.Op)
		}
	case "":
		return fmt.Errorf("%s: op is required", at)
	default:
		return fmt.Errorf("%s: unknown op %q", at, s.Op)
	}

	if len(s.OrderBy) > 0 && s.Op != OpSelect {
		return fmt.Errorf("%s: order_by is only allowed for select", at)
	}

	if s.Expect != nil && s.Expect.Rows != nil {
		if s.Op != OpSelect {
			return fmt.Errorf("%s.expect: rows is only allowed for select", at)
		}
		if *s.Expect.Rows < 0 {
			return fmt.Errorf("%s.expect: rows must be non-negative", at)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRowCount:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for row_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceContains:
		if a.SQL == "" {
			return fmt.Errorf("assertions[%d]: sql is required for trace_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
