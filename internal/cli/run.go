package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/testhooks/changed-test-ids/internal/collect"
	"github.com/testhooks/changed-test-ids/internal/coverage"
	"github.com/testhooks/changed-test-ids/internal/glob"
	"github.com/testhooks/changed-test-ids/internal/report"
	"github.com/testhooks/changed-test-ids/internal/scan"
	"github.com/testhooks/changed-test-ids/internal/vcs"
)

var (
	errNoInput        = errors.New("nothing to do: pass --sources and/or --specs")
	errMissingTestIDs = errors.New("missing test ids")
)

// searchRoot is where globs are expanded. Paths in reports stay relative.
const searchRoot = "."

type runner struct {
	cfg      Config
	logger   *slog.Logger
	printer  *report.Printer
	actions  *report.Actions
	lister   vcs.Lister
	progress *progressReporter
	excludes *glob.Excludes
}

func (r *runner) newCollector() *collect.Collector {
	return collect.New(
		collect.WithOptions(scan.Options{Attributes: r.cfg.Attributes, Commands: r.cfg.Commands}),
		collect.WithLogger(r.logger),
		collect.WithProgress(r.progress.Update),
	)
}

// run picks the mode from the configuration. Only configuration errors are
// returned; unreadable files and git failures are reported and skipped.
func (r *runner) run(ctx context.Context) error {
	cfg := r.cfg
	switch {
	case cfg.TestIDsGiven && cfg.Specs != "":
		return r.specsForIDs()
	case cfg.Sources != "" && cfg.Branch != "":
		return r.changedSources(ctx)
	case cfg.Sources != "" || cfg.Specs != "":
		return r.scan()
	default:
		return errNoInput
	}
}

func (r *runner) expand(pattern string) ([]string, error) {
	files, err := glob.Expand(searchRoot, pattern, r.excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}
	r.logger.Debug("expanded pattern", "pattern", pattern, "files", len(files))
	return files, nil
}

func (r *runner) scanSpecs(c *collect.Collector, files []string) collect.SpecIndex {
	r.progress.Begin("specs")
	return c.SpecQueries(files)
}

func (r *runner) specsForIDs() error {
	ids, err := r.cfg.testIDs()
	if err != nil {
		return err
	}
	r.logger.Debug("finding specs using the given test ids", "ids", len(ids))

	specFiles, err := r.expand(r.cfg.Specs)
	if err != nil {
		return err
	}

	c := r.newCollector()
	defer c.Close()
	index := r.scanSpecs(c, specFiles)

	result := report.SpecsForIDsReport{
		Mode:      report.ModeSpecsForIDs,
		Pattern:   r.cfg.Specs,
		TestIDs:   ids,
		SpecFiles: specFiles,
		Usage:     coverage.SpecsForIdentifiers(ids, index),
		Issues:    index.Issues,
	}
	if err := r.printer.SpecsForIDs(result); err != nil {
		return err
	}

	if r.cfg.SetGHAOutputs && len(result.Specs) > 0 {
		r.writeOutputs(func(a *report.Actions) error { return a.SpecsForIDsOutputs(result) })
	}
	return nil
}

func (r *runner) changedSources(ctx context.Context) error {
	sources, err := glob.Compile(r.cfg.Sources)
	if err != nil {
		return err
	}

	changed, err := r.lister.ListChangedFiles(ctx, r.cfg.Branch, r.cfg.Parent)
	if err != nil {
		return err
	}

	matching := make([]vcs.ChangedFile, 0, len(changed))
	for _, record := range changed {
		if sources.Match(record.Filename) && !r.excludes.Skip(record.Filename, false) {
			matching = append(matching, record)
		}
	}
	r.logger.Debug("changed source files", "pattern", r.cfg.Sources, "changed", len(changed), "matching", len(matching))

	c := r.newCollector()
	defer c.Close()
	r.progress.Begin("changed sources")
	markup := c.MarkupAttributesInChangedFiles(matching)

	result := report.ChangedReport{
		Mode:               report.ModeChanged,
		Branch:             r.cfg.Branch,
		Parent:             r.cfg.Parent,
		Pattern:            r.cfg.Sources,
		ChangedFiles:       vcs.Filenames(changed),
		ChangedSourceFiles: markup.Files,
		TestIDs:            markup.IDs,
		Issues:             markup.Issues,
	}

	if r.cfg.Specs != "" && len(markup.IDs) > 0 {
		specFiles, err := r.expand(r.cfg.Specs)
		if err != nil {
			return err
		}
		index := r.scanSpecs(c, specFiles)
		result.SpecsGiven = true
		result.SpecsPattern = r.cfg.Specs
		result.SpecFiles = specFiles
		result.SpecsToRun = coverage.SpecsForChangedIdentifiers(markup.IDs, index)
		result.Issues = append(result.Issues, index.Issues...)
	}

	if err := r.printer.Changed(result); err != nil {
		return err
	}

	// With specs, outputs are only written when some spec matched.
	if r.cfg.SetGHAOutputs && (!result.SpecsGiven || len(result.SpecsToRun) > 0) {
		r.writeOutputs(func(a *report.Actions) error { return a.ChangedOutputs(result) })
	}
	return nil
}

func (r *runner) scan() error {
	result := report.ScanReport{Mode: report.ModeScan}
	c := r.newCollector()
	defer c.Close()

	if r.cfg.Sources != "" {
		files, err := r.expand(r.cfg.Sources)
		if err != nil {
			return err
		}
		set := &report.FileSet{Pattern: r.cfg.Sources, Files: files, IDs: []string{}}
		if len(files) > 0 {
			r.progress.Begin("sources")
			markup := c.MarkupAttributes(files)
			set.IDs = markup.IDs
			result.Issues = append(result.Issues, markup.Issues...)
		}
		result.Sources = set
	}

	if r.cfg.Specs != "" {
		files, err := r.expand(r.cfg.Specs)
		if err != nil {
			return err
		}
		set := &report.FileSet{Pattern: r.cfg.Specs, Files: files, IDs: []string{}}
		if len(files) > 0 {
			index := r.scanSpecs(c, files)
			set.IDs = index.IDs
			set.ByID = index.ByID
			result.Issues = append(result.Issues, index.Issues...)
		}
		result.Specs = set
	}

	if result.Checked() {
		result.Uncovered = coverage.Uncovered(result.Sources.IDs, result.Specs.IDs)
	}
	return r.printer.Scan(result)
}

// writeOutputs logs failures instead of returning them.
func (r *runner) writeOutputs(write func(*report.Actions) error) {
	if err := write(r.actions); err != nil {
		r.logger.Warn("could not write GitHub Actions outputs", "error", err)
	}
}
