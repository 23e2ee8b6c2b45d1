package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the compiled SQL against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the mapping cannot be loaded or does not compile.
// Test failure (via goldie) occurs if the SQL doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's SQL against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	if result.CompileError != "" {
		return fmt.Errorf("scenario %s did not compile: %s", scenarioName, result.CompileError)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, goldenName(scenarioName), []byte(result.SQL))
	return nil
}

func goldenName(name string) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(name)
}
