// Package vcs lists the files changed between the working branch and a base
// branch, together with their contents at both endpoints.
package vcs

import (
	"context"
	"errors"
)

// ErrBranchRequired is returned when no base branch is given.
var ErrBranchRequired = errors.New("branch is required")

// ChangedFile is one added, modified, renamed or deleted file. Before and
// After are empty when the file does not exist at that endpoint.
type ChangedFile struct {
	Filename string `json:"filename" yaml:"filename"`
	Before   string `json:"-" yaml:"-"`
	After    string `json:"-" yaml:"-"`
}

// Lister finds the files changed against origin/<branch>, or against its
// merge-base with HEAD when useParent is set.
type Lister interface {
	ListChangedFiles(ctx context.Context, branch string, useParent bool) ([]ChangedFile, error)
}

// Filenames returns the names of files in order.
func Filenames(files []ChangedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return names
}
