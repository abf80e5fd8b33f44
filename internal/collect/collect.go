// Package collect runs the scanners over files and aggregates their
// identifiers. A file that cannot be read or parsed contributes nothing; the
// failure is logged and kept as an issue, and the remaining files are still
// scanned.
package collect

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/testhooks/changed-test-ids/internal/fileutil"
	"github.com/testhooks/changed-test-ids/internal/logging"
	"github.com/testhooks/changed-test-ids/internal/parser"
	"github.com/testhooks/changed-test-ids/internal/scan"
	"github.com/testhooks/changed-test-ids/internal/vcs"
)

// ProgressFunc is called after each file with the number of files done so
// far, the total, and the file just finished.
type ProgressFunc func(done, total int, file string)

// MarkupIndex is the union of the identifiers declared by markup files.
type MarkupIndex struct {
	Files  []string            `json:"files" yaml:"files"`
	IDs    []string            `json:"ids" yaml:"ids"`
	Issues []parser.ParseIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// SpecIndex is the union of the identifiers queried by spec files. ByID maps
// each identifier to the specs using it, in scan order.
type SpecIndex struct {
	Files  []string            `json:"files" yaml:"files"`
	IDs    []string            `json:"ids" yaml:"ids"`
	ByID   map[string][]string `json:"byId" yaml:"byId"`
	Issues []parser.ParseIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Collector scans files with one Scanner. Like the Scanner it is not safe
// for concurrent use.
type Collector struct {
	scanner  *scan.Scanner
	opts     scan.Options
	logger   *slog.Logger
	progress ProgressFunc
	readFile func(string) ([]byte, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithOptions sets the extra attributes and commands used by every scan.
func WithOptions(opts scan.Options) Option {
	return func(c *Collector) { c.opts = opts }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithProgress(fn ProgressFunc) Option {
	return func(c *Collector) { c.progress = fn }
}

// New returns a Collector. Without WithLogger, nothing is logged.
func New(options ...Option) *Collector {
	c := &Collector{
		scanner:  scan.NewScanner(),
		logger:   logging.Discard(),
		readFile: os.ReadFile,
	}
	for _, apply := range options {
		apply(c)
	}
	return c
}

// Close releases the underlying scanner.
func (c *Collector) Close() {
	c.scanner.Close()
}

// MarkupAttributesInFile returns the distinct identifiers declared in the
// markup file at path, sorted.
func (c *Collector) MarkupAttributesInFile(path string) ([]string, *parser.ParseIssue) {
	return c.scanFile(path, c.scanner.MarkupAttributes)
}

// SpecQueriesInFile returns the distinct identifiers queried by the spec
// file at path, sorted.
func (c *Collector) SpecQueriesInFile(path string) ([]string, *parser.ParseIssue) {
	return c.scanFile(path, c.scanner.SpecQueries)
}

// MarkupAttributesInChangedFile returns the union of the identifiers
// declared before and after the change, sorted. An empty side is skipped.
func (c *Collector) MarkupAttributesInChangedFile(record vcs.ChangedFile) ([]string, []parser.ParseIssue) {
	var issues []parser.ParseIssue
	sides := make([][]string, 0, 2)

	for _, side := range []struct {
		label string
		text  string
	}{
		{"before", record.Before},
		{"after", record.After},
	} {
		if side.text == "" {
			continue
		}
		result := c.scanner.MarkupAttributes([]byte(side.text), c.opts.WithFilename(record.Filename))
		if !result.OK() {
			issue := *result.Issue
			issue.Message = fmt.Sprintf("%s: %s", side.label, issue.Message)
			c.warn(issue)
			issues = append(issues, issue)
			continue
		}
		sides = append(sides, result.IDs)
	}
	return fileutil.SortedUnique(sides...), issues
}

// MarkupAttributes scans every markup file and returns the distinct
// identifiers across all of them.
func (c *Collector) MarkupAttributes(paths []string) MarkupIndex {
	index := MarkupIndex{Files: append([]string{}, paths...)}
	perFile := make([][]string, 0, len(paths))

	for i, path := range paths {
		ids, issue := c.MarkupAttributesInFile(path)
		if issue != nil {
			index.Issues = append(index.Issues, *issue)
		}
		perFile = append(perFile, ids)
		c.logger.Debug("scanned markup", "file", path, "ids", len(ids))
		c.report(i+1, len(paths), path)
	}

	index.IDs = fileutil.SortedUnique(perFile...)
	return index
}

// SpecQueries scans every spec file, returning the distinct identifiers and
// the specs using each one. A spec is listed at most once per identifier.
func (c *Collector) SpecQueries(paths []string) SpecIndex {
	index := SpecIndex{
		Files: append([]string{}, paths...),
		ByID:  make(map[string][]string),
	}
	perFile := make([][]string, 0, len(paths))
	listed := make(map[string]map[string]bool)

	for i, path := range paths {
		ids, issue := c.SpecQueriesInFile(path)
		if issue != nil {
			index.Issues = append(index.Issues, *issue)
		}
		perFile = append(perFile, ids)
		for _, id := range ids {
			if listed[id] == nil {
				listed[id] = make(map[string]bool)
			}
			if listed[id][path] {
				continue
			}
			listed[id][path] = true
			index.ByID[id] = append(index.ByID[id], path)
		}
		c.logger.Debug("scanned spec", "file", path, "ids", len(ids))
		c.report(i+1, len(paths), path)
	}

	index.IDs = fileutil.SortedUnique(perFile...)
	return index
}

// MarkupAttributesInChangedFiles returns the distinct identifiers declared
// on either side of every changed file.
func (c *Collector) MarkupAttributesInChangedFiles(records []vcs.ChangedFile) MarkupIndex {
	index := MarkupIndex{Files: vcs.Filenames(records)}
	perFile := make([][]string, 0, len(records))

	for i, record := range records {
		ids, issues := c.MarkupAttributesInChangedFile(record)
		index.Issues = append(index.Issues, issues...)
		perFile = append(perFile, ids)
		c.logger.Debug("scanned changed markup", "file", record.Filename, "ids", len(ids))
		c.report(i+1, len(records), record.Filename)
	}

	index.IDs = fileutil.SortedUnique(perFile...)
	return index
}

func (c *Collector) scanFile(path string, scanSource func([]byte, scan.Options) scan.Result) ([]string, *parser.ParseIssue) {
	content, err := c.readFile(path)
	if err != nil {
		issue := parser.ParseIssue{
			File:     path,
			Severity: parser.SeverityWarning,
			Message:  fmt.Sprintf("could not read file: %v", err),
		}
		c.warn(issue)
		return []string{}, &issue
	}

	result := scanSource(content, c.opts.WithFilename(path))
	if !result.OK() {
		c.warn(*result.Issue)
		return []string{}, result.Issue
	}
	return fileutil.SortedUnique(result.IDs), nil
}

func (c *Collector) warn(issue parser.ParseIssue) {
	c.logger.Warn("skipping file", "file", issue.File, "reason", issue.Message)
}

func (c *Collector) report(done, total int, file string) {
	if c.progress != nil {
		c.progress(done, total, file)
	}
}
