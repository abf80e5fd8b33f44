package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	envOutput  = "GITHUB_OUTPUT"
	envSummary = "GITHUB_STEP_SUMMARY"

	projectName = "changed-test-ids"
	projectURL  = "https://github.com/testhooks/changed-test-ids"
)

// Actions writes step outputs and the job summary of a GitHub Actions run.
type Actions struct {
	OutputPath  string
	SummaryPath string
	// Fallback receives workflow commands when no output file is set.
	Fallback io.Writer
}

// ActionsFromEnv reads the output and summary file paths set by the runner.
func ActionsFromEnv() *Actions {
	return &Actions{
		OutputPath:  os.Getenv(envOutput),
		SummaryPath: os.Getenv(envSummary),
		Fallback:    os.Stdout,
	}
}

// SetOutput appends name=value to the output file using a random heredoc
// delimiter, so values may span lines.
func (a *Actions) SetOutput(name, value string) error {
	if a.OutputPath == "" {
		if a.Fallback == nil {
			return nil
		}
		_, err := fmt.Fprintf(a.Fallback, "::set-output name=%s::%s\n", name, escapeCommand(value))
		return err
	}

	delimiter := "ghadelimiter_" + uuid.New().String()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %s contains the delimiter", name)
	}
	return appendFile(a.OutputPath, fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter))
}

// WriteSummary appends markdown to the job summary.
func (a *Actions) WriteSummary(s *Summary) error {
	if a.SummaryPath == "" {
		return fmt.Errorf("unable to find environment variable %s", envSummary)
	}
	return appendFile(a.SummaryPath, s.String())
}

// Summary builds a markdown job summary.
type Summary struct {
	b strings.Builder
}

func (s *Summary) Heading(text string) *Summary {
	fmt.Fprintf(&s.b, "## %s\n\n", text)
	return s
}

func (s *Summary) List(items []string) *Summary {
	for _, item := range items {
		fmt.Fprintf(&s.b, "- %s\n", item)
	}
	s.b.WriteString("\n")
	return s
}

// Table writes rows of cells; the first row is the header.
func (s *Summary) Table(rows [][]string) *Summary {
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.ReplaceAll(cell, "|", `\|`)
		}
		fmt.Fprintf(&s.b, "| %s |\n", strings.Join(cells, " | "))
		if i == 0 {
			fmt.Fprintf(&s.b, "|%s\n", strings.Repeat(" --- |", len(row)))
		}
	}
	s.b.WriteString("\n")
	return s
}

func (s *Summary) Link(text, href string) *Summary {
	fmt.Fprintf(&s.b, "[%s](%s)\n\n", text, href)
	return s
}

func (s *Summary) String() string {
	return s.b.String()
}

// SpecsForIDsOutputs sets specsToRun and unusedTestIds with their counts
// and writes a summary of the query.
func (a *Actions) SpecsForIDsOutputs(r SpecsForIDsReport) error {
	specs := strings.Join(r.Specs, ",")
	if err := a.setAll(
		"specsToRunN", strconv.Itoa(len(r.Specs)),
		"specsToRun", specs,
		"unusedTestIdsN", strconv.Itoa(len(r.Unused)),
		"unusedTestIds", strings.Join(r.Unused, ","),
	); err != nil {
		return err
	}

	list := []string{
		fmt.Sprintf("%d given test ids: %s", len(r.TestIDs), strings.Join(r.TestIDs, ", ")),
		fmt.Sprintf("set specsToRunN=%d and specs found as specsToRun: %s", len(r.Specs), specs),
	}
	if len(r.Unused) > 0 {
		list = append(list, fmt.Sprintf("%d test ids were not used in any specs: %s", len(r.Unused), strings.Join(r.Unused, ", ")))
	}
	summary := new(Summary).
		Heading("Specs using given test ids").
		List(list).
		Link(projectName, projectURL)
	return a.WriteSummary(summary)
}

// ChangedOutputs sets specsToRun when specs were scanned, otherwise
// changedTestIds, each with its count.
func (a *Actions) ChangedOutputs(r ChangedReport) error {
	if r.SpecsGiven && len(r.TestIDs) > 0 {
		return a.setAll(
			"specsToRunN", strconv.Itoa(len(r.SpecsToRun)),
			"specsToRun", strings.Join(r.SpecsToRun, ","),
		)
	}

	ids := strings.Join(r.TestIDs, ",")
	if err := a.setAll(
		"changedTestIdsN", strconv.Itoa(len(r.TestIDs)),
		"changedTestIds", ids,
	); err != nil {
		return err
	}

	heading := "Test Ids In Changed Source Files"
	if len(r.TestIDs) == 0 {
		heading = projectName
	}
	ids = truncate(ids, 100)
	summary := new(Summary).
		Heading(heading).
		Table([][]string{
			{"Property", "Value"},
			{"Parent branch", r.Branch},
			{"Changed files", strconv.Itoa(len(r.ChangedFiles))},
			{"Changed source files", strconv.Itoa(len(r.ChangedSourceFiles))},
			{"Changed test ids N", strconv.Itoa(len(r.TestIDs))},
			{"Changed test ids", ids},
		}).
		Link(projectName, projectURL)
	return a.WriteSummary(summary)
}

func (a *Actions) setAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := a.SetOutput(pairs[i], pairs[i+1]); err != nil {
			return fmt.Errorf("set output %s: %w", pairs[i], err)
		}
	}
	return nil
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func escapeCommand(value string) string {
	value = strings.ReplaceAll(value, "%", "%25")
	value = strings.ReplaceAll(value, "\r", "%0D")
	return strings.ReplaceAll(value, "\n", "%0A")
}

// truncate cuts s to at most n runes and marks the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
