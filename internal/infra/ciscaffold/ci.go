// Package ciscaffold writes a GitHub Actions workflow into a project.
package ciscaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNotADirectory = errors.New("target directory not found")

type step struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

type job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type workflow struct {
	Name string              `yaml:"name"`
	On   map[string]struct{} `yaml:"on"`
	Jobs map[string]job      `yaml:"jobs"`
}

func goWorkflow() workflow {
	checkout := step{Name: "Checkout", Uses: "actions/checkout@v4"}
	setupGo := step{Name: "Set up Go", Uses: "actions/setup-go@v5", With: map[string]string{"go-version-file": "go.mod"}}
	return workflow{
		Name: "CI",
		On:   map[string]struct{}{"push": {}, "pull_request": {}},
		Jobs: map[string]job{
			"test": {
				RunsOn: "ubuntu-latest",
				Steps: []step{
					checkout,
					setupGo,
					{Name: "Vet", Run: "go vet ./..."},
					{Name: "Test", Run: "go test -race ./..."},
				},
			},
			"lint": {
				RunsOn: "ubuntu-latest",
				Steps: []step{
					checkout,
					setupGo,
					{Name: "golangci-lint", Uses: "golangci/golangci-lint-action@v6"},
				},
			},
		},
	}
}

// Render returns the workflow YAML.
func Render() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(goWorkflow()); err != nil {
		return nil, fmt.Errorf("failed to render workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scaffold writes <dir>/.github/workflows/ci.yml (overwriting it) and returns its path.
func Scaffold(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	target, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(target); err != nil || !fi.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, target)
	}

	content, err := Render()
	if err != nil {
		return "", err
	}
	ciDir := filepath.Join(target, ".github", "workflows")
	if err := os.MkdirAll(ciDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", ciDir, err)
	}
	ciPath := filepath.Join(ciDir, "ci.yml")
	if err := os.WriteFile(ciPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", ciPath, err)
	}
	return ciPath, nil
}
