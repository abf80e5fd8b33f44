package fileutil

import (
	"sort"
	"strings"
)

// DedupeStrings drops repeated items, keeping first occurrences in order.
func DedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// SortedUnique returns the distinct non-empty items in ascending order.
// Items are compared verbatim; nothing is trimmed or case-folded.
func SortedUnique(items ...[]string) []string {
	set := make(map[string]bool)
	for _, group := range items {
		for _, item := range group {
			if item == "" {
				continue
			}
			set[item] = true
		}
	}
	return MapKeysSorted(set)
}

func MapKeysSorted(values map[string]bool) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func ToSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// SplitList splits a comma-separated list, trimming entries and dropping
// empty ones.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
