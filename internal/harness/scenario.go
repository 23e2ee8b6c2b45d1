package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jonathan2951/mapping-specs/internal/mapping"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the path to a mapping file. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Spec string `yaml:"spec,omitempty"`

	// Mapping is an inline mapping, used when Spec is empty.
	Mapping *mapping.Specification `yaml:"mapping,omitempty"`

	// Strict compiles with duplicate-alias and ambiguous-join checks enabled.
	Strict bool `yaml:"strict,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected compilation outcome.
type Expect struct {
	// SQL is the exact expected statement.
	SQL string `yaml:"sql,omitempty"`

	// Contains lists fragments that must appear in the statement.
	Contains []string `yaml:"contains,omitempty"`

	// Error is a substring of the expected compilation error.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expected:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve Spec against the scenario file before validation
	if scenario.Spec != "" && !filepath.IsAbs(scenario.Spec) {
		scenario.Spec = filepath.Join(filepath.Dir(path), scenario.Spec)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml/.yml scenario directly inside dir,
// sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Spec == "" && s.Mapping == nil:
		return fmt.Errorf("one of spec or mapping is required")
	case s.Spec != "" && s.Mapping != nil:
		return fmt.Errorf("spec and mapping are mutually exclusive")
	}

	if s.Spec != "" {
		if _, err := os.Stat(s.Spec); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", s.Spec)
		}
	}

	e := s.Expect
	if e.SQL == "" && len(e.Contains) == 0 && e.Error == "" {
		return fmt.Errorf("expect requires sql, contains or error")
	}
	if e.Error != "" && (e.SQL != "" || len(e.Contains) > 0) {
		return fmt.Errorf("expect.error cannot be combined with sql or contains")
	}
	for i, frag := range e.Contains {
		if frag == "" {
			return fmt.Errorf("expect.contains[%d]: fragment is empty", i)
		}
	}

	return nil
}
