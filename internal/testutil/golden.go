// Package testutil provides shared test helpers for transcript scenarios.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ScenariosDir is the relative path from the module root to the scenarios.
const ScenariosDir = "testdata/scenarios"

// Scenario is one end-to-end transcript loaded from a YAML file.
type Scenario struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags,omitempty"`
	// Cmd is "repl", "run", "check" or "fmt".
	Cmd           string         `yaml:"cmd"`
	Stdin         string         `yaml:"stdin"`
	MaxIterations int64          `yaml:"maxIterations,omitempty"`
	Expect        ExpectedResult `yaml:"expect"`
}

// ExpectedResult describes the expected outcome of running a scenario.
type ExpectedResult struct {
	// Stdout is the program output with REPL prompts removed.
	Stdout         string `yaml:"stdout"`
	StdoutContains string `yaml:"stdoutContains,omitempty"`
	// Prompts is the number of prompts written, when non-zero.
	Prompts int `yaml:"prompts,omitempty"`
	// ErrorCode is the diagnostic code for run and check scenarios.
	ErrorCode string `yaml:"errorCode,omitempty"`
	// Env maps variable names to their displayed values after the scenario.
	Env   map[string]string `yaml:"env,omitempty"`
	Unset []string          `yaml:"unset,omitempty"`
}

// LoadScenario loads and validates a scenario file. Unknown keys are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	switch s.Cmd {
	case "repl", "run", "check", "fmt":
	case "":
		s.Cmd = "repl"
	default:
		return nil, errors.Errorf("%s: unknown cmd %q", filepath.Base(path), s.Cmd)
	}
	return &s, nil
}

// ListScenarios returns all scenario files under the given root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, "list scenarios")
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
