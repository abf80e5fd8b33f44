// Package coverage answers which identifiers lack specs and which specs
// exercise a set of identifiers. All functions are pure.
package coverage

import (
	"sort"

	"github.com/testhooks/changed-test-ids/internal/collect"
	"github.com/testhooks/changed-test-ids/internal/fileutil"
)

// Usage is the answer to "which specs use these identifiers".
type Usage struct {
	// Specs use at least one requested identifier, in scan order.
	Specs []string `json:"specs" yaml:"specs"`
	// ByID holds an entry, possibly empty, for every requested identifier.
	ByID map[string][]string `json:"byId" yaml:"byId"`
	// Unused are the requested identifiers no spec uses, in request order.
	Unused []string `json:"unused" yaml:"unused"`
}

// Uncovered returns the declared identifiers that are never used, sorted.
func Uncovered(declared, used []string) []string {
	usedSet := fileutil.ToSet(used)
	missing := make(map[string]bool)
	for _, id := range declared {
		if id != "" && !usedSet[id] {
			missing[id] = true
		}
	}
	return fileutil.MapKeysSorted(missing)
}

// SpecsForIdentifiers finds the specs using each of ids. Repeated ids are
// considered once.
func SpecsForIdentifiers(ids []string, index collect.SpecIndex) Usage {
	requested := fileutil.DedupeStrings(ids)
	usage := Usage{
		Specs:  []string{},
		ByID:   make(map[string][]string, len(requested)),
		Unused: []string{},
	}

	using := make(map[string]bool)
	for _, id := range requested {
		files := index.ByID[id]
		usage.ByID[id] = append([]string{}, files...)
		if len(files) == 0 {
			usage.Unused = append(usage.Unused, id)
		}
		for _, file := range files {
			using[file] = true
		}
	}
	usage.Specs = inScanOrder(using, index)
	return usage
}

// SpecsForChangedIdentifiers returns the specs using at least one of the
// changed identifiers, in scan order.
func SpecsForChangedIdentifiers(changed []string, index collect.SpecIndex) []string {
	using := make(map[string]bool)
	for _, id := range changed {
		for _, file := range index.ByID[id] {
			using[file] = true
		}
	}
	return inScanOrder(using, index)
}

// inScanOrder orders the selected files as they appear in index.Files.
// Files missing from index.Files follow, sorted.
func inScanOrder(selected map[string]bool, index collect.SpecIndex) []string {
	out := make([]string, 0, len(selected))
	placed := make(map[string]bool, len(selected))
	for _, file := range index.Files {
		if selected[file] && !placed[file] {
			placed[file] = true
			out = append(out, file)
		}
	}

	var rest []string
	for file := range selected {
		if !placed[file] {
			rest = append(rest, file)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
