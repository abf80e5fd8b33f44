package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// Printer writes reports. Results go to Out; counts and warnings to Err, so
// that Out can be piped into other tools.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format
	// Verbose prints per-identifier usage.
	Verbose bool
	// Comma prints identifiers on one comma-separated line.
	Comma bool
	// UnusedOnly prints only the unused identifiers of a specs-for-ids run.
	UnusedOnly bool
}

func (p *Printer) Scan(r ScanReport) error {
	if p.Format != FormatText {
		return encode(p.Out, p.Format, r)
	}
	checked := r.Checked()

	if set := r.Sources; set != nil {
		switch {
		case len(set.Files) == 0:
			p.noFiles(set.Pattern)
		case len(set.IDs) == 0:
			fmt.Fprintf(p.Err, "found 0 test ids across %d source files\n", len(set.Files))
			fmt.Fprintf(p.Out, "Could not find any test ids in %d source files\n", len(set.Files))
		default:
			fmt.Fprintf(p.Err, "found %d test ids across %d source files\n", len(set.IDs), len(set.Files))
			if !checked {
				p.ids(set.IDs)
			}
		}
	}

	if set := r.Specs; set != nil {
		switch {
		case len(set.Files) == 0:
			p.noFiles(set.Pattern)
		case len(set.IDs) == 0:
			fmt.Fprintf(p.Err, "found 0 test ids across %d specs\n", len(set.Files))
			fmt.Fprintf(p.Out, "Could not find any test ids in %d specs\n", len(set.Files))
		default:
			fmt.Fprintf(p.Err, "found %d test ids across %d specs\n", len(set.IDs), len(set.Files))
			if !checked {
				if p.Verbose {
					p.usageTable(set.IDs, set.ByID)
				} else {
					p.ids(set.IDs)
				}
			}
		}
	}

	if checked {
		if len(r.Uncovered) == 0 {
			okColor.Fprintln(p.Out, "✅ all test ids in the source files were used in specs")
		} else {
			warnColor.Fprintf(p.Out, "⚠️ found %d test id(s) not covered by any specs\n", len(r.Uncovered))
			for _, id := range r.Uncovered {
				fmt.Fprintln(p.Out, id)
			}
		}
	}
	return nil
}

func (p *Printer) SpecsForIDs(r SpecsForIDsReport) error {
	if p.Format != FormatText {
		return encode(p.Out, p.Format, r)
	}

	if len(r.SpecFiles) == 0 {
		p.noFiles(r.Pattern)
	}
	given := strings.Join(r.TestIDs, ", ")
	if len(r.Specs) == 0 {
		fmt.Fprintf(p.Out, "Could not find any specs that use the given test ids %q\n", given)
		if p.UnusedOnly && len(r.Unused) > 0 {
			fmt.Fprintln(p.Out, strings.Join(r.Unused, ","))
		}
		return nil
	}

	if !p.UnusedOnly {
		fmt.Fprintf(p.Out, "These %d specs use the given test ids %q\n", len(r.Specs), given)
	}
	if len(r.Unused) > 0 {
		if p.UnusedOnly {
			warnColor.Fprintf(p.Err, "%d test ids were not used in any specs\n", len(r.Unused))
			fmt.Fprintln(p.Out, strings.Join(r.Unused, ","))
		} else {
			warnColor.Fprintf(p.Err, "The following %d test ids were not used in any specs\n", len(r.Unused))
			fmt.Fprintln(p.Err, strings.Join(r.Unused, ", "))
		}
	}

	switch {
	case p.Verbose:
		p.usageTable(r.TestIDs, r.ByID)
	case !p.UnusedOnly:
		for _, spec := range r.Specs {
			fmt.Fprintln(p.Out, spec)
		}
	}
	return nil
}

func (p *Printer) Changed(r ChangedReport) error {
	if p.Format != FormatText {
		return encode(p.Out, p.Format, r)
	}

	fmt.Fprintf(p.Err, "%d changed files against %s, %d matching %q\n",
		len(r.ChangedFiles), r.Branch, len(r.ChangedSourceFiles), r.Pattern)
	if len(r.ChangedSourceFiles) > 0 {
		fmt.Fprintf(p.Err, "changed source files (%d): %s\n", len(r.ChangedSourceFiles), SummarizePaths(r.ChangedSourceFiles, 8))
	}

	if len(r.TestIDs) == 0 {
		fmt.Fprintln(p.Out, "no test ids detected")
		return nil
	}

	if !r.SpecsGiven {
		p.ids(r.TestIDs)
		return nil
	}

	if len(r.SpecFiles) == 0 {
		p.noFiles(r.SpecsPattern)
	}
	given := strings.Join(r.TestIDs, ", ")
	if len(r.SpecsToRun) == 0 {
		fmt.Fprintf(p.Out, "Could not find any specs that use test ids %q from changed source files\n", given)
		return nil
	}
	fmt.Fprintf(p.Out, "These %d specs use the test ids %q found in the changed source files\n", len(r.SpecsToRun), given)
	for _, spec := range r.SpecsToRun {
		fmt.Fprintln(p.Out, spec)
	}
	return nil
}

func (p *Printer) noFiles(pattern string) {
	fmt.Fprintf(p.Err, "No files matching %q found\n", pattern)
}

func (p *Printer) ids(ids []string) {
	if p.Comma {
		fmt.Fprintln(p.Out, strings.Join(ids, ","))
		return
	}
	for _, id := range ids {
		fmt.Fprintln(p.Out, id)
	}
}

// usageTable prints one row per identifier with the specs using it.
func (p *Printer) usageTable(ids []string, byID map[string][]string) {
	table := tablewriter.NewWriter(p.Out)
	table.SetHeader([]string{"Test id", "Specs", "Files"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, id := range ids {
		files := byID[id]
		listed := strings.Join(files, ", ")
		if len(files) == 0 {
			listed = "not found in any of the specs"
		}
		table.Append([]string{id, strconv.Itoa(len(files)), listed})
	}
	table.Render()
}
