package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fluentfrontbase/internal/ir"
)

// TraceSnapshot captures the statement trace of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonical converts the snapshot to IR values for canonical JSON.
// Binds go through ir.BindValue so byte slices and floats stay stable.
func (s *TraceSnapshot) toCanonical() ir.IRObject {
	trace := make(ir.IRArray, len(s.Trace))
	for i, event := range s.Trace {
		binds := make(ir.IRArray, len(event.Binds))
		for j, b := range event.Binds {
			binds[j] = ir.BindValue(b)
		}
		entry := ir.IRObject{
			"seq":   ir.IRInt(event.Seq),
			"sql":   ir.IRString(event.SQL),
			"binds": binds,
			"rows":  ir.IRInt(event.Rows),
		}
		if event.Error != "" {
			entry["error"] = ir.IRString(event.Error)
		}
		trace[i] = entry
	}

	return ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"trace":         trace,
	}
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}

	traceJSON, err := ir.MarshalCanonical(snapshot.toCanonical())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
