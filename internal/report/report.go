// Package report renders run results as text, JSON or YAML and writes
// GitHub Actions outputs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/testhooks/changed-test-ids/internal/coverage"
	"github.com/testhooks/changed-test-ids/internal/parser"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text, json or yaml)", value)
	}
}

const (
	ModeScan        = "scan"
	ModeSpecsForIDs = "specs-for-test-ids"
	ModeChanged     = "changed-sources"
)

// FileSet is the identifiers found in the files matching one pattern.
type FileSet struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Files   []string `json:"files" yaml:"files"`
	IDs     []string `json:"ids" yaml:"ids"`
	// ByID is only set for specs.
	ByID map[string][]string `json:"byId,omitempty" yaml:"byId,omitempty"`
}

// ScanReport lists the identifiers declared by sources and used by specs.
// Uncovered is set when both were scanned.
type ScanReport struct {
	Mode      string   `json:"mode" yaml:"mode"`
	Sources   *FileSet `json:"sources,omitempty" yaml:"sources,omitempty"`
	Specs     *FileSet `json:"specs,omitempty" yaml:"specs,omitempty"`
	Uncovered []string `json:"uncovered,omitempty" yaml:"uncovered,omitempty"`

	Issues []parser.ParseIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Checked reports whether the coverage check ran.
func (r ScanReport) Checked() bool {
	return r.Sources != nil && r.Specs != nil
}

// SpecsForIDsReport lists the specs that use the requested identifiers.
type SpecsForIDsReport struct {
	Mode           string   `json:"mode" yaml:"mode"`
	Pattern        string   `json:"pattern" yaml:"pattern"`
	TestIDs        []string `json:"testIds" yaml:"testIds"`
	SpecFiles      []string `json:"specFiles" yaml:"specFiles"`
	coverage.Usage `yaml:",inline"`

	Issues []parser.ParseIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// ChangedReport lists the identifiers in source files changed against a
// branch and, when specs were given, the specs that use them.
type ChangedReport struct {
	Mode               string   `json:"mode" yaml:"mode"`
	Branch             string   `json:"branch" yaml:"branch"`
	Parent             bool     `json:"parent" yaml:"parent"`
	Pattern            string   `json:"pattern" yaml:"pattern"`
	ChangedFiles       []string `json:"changedFiles" yaml:"changedFiles"`
	ChangedSourceFiles []string `json:"changedSourceFiles" yaml:"changedSourceFiles"`
	TestIDs            []string `json:"testIds" yaml:"testIds"`
	// SpecsPattern, SpecFiles and SpecsToRun are only set when specs were
	// scanned.
	SpecsPattern string   `json:"specsPattern,omitempty" yaml:"specsPattern,omitempty"`
	SpecFiles    []string `json:"specFiles,omitempty" yaml:"specFiles,omitempty"`
	SpecsToRun   []string `json:"specsToRun,omitempty" yaml:"specsToRun,omitempty"`
	SpecsGiven   bool     `json:"-" yaml:"-"`

	Issues []parser.ParseIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

func encode(w io.Writer, format Format, value any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// SummarizePaths joins up to max paths, noting how many were left out.
func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
