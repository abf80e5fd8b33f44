package vcs

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// fileChange is a path pair taken from a diff. OrigPath is empty for added
// files and NewPath is empty for deleted ones.
type fileChange struct {
	OrigPath string
	NewPath  string
}

// Filename is the path reported for the change: the new path unless the file
// was deleted.
func (c fileChange) Filename() string {
	if c.NewPath != "" {
		return c.NewPath
	}
	return c.OrigPath
}

// parseChanges extracts the changed paths from a git diff in file order.
func parseChanges(diffContent []byte) ([]fileChange, error) {
	if len(strings.TrimSpace(string(diffContent))) == 0 {
		return []fileChange{}, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff(diffContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	changes := make([]fileChange, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		change := changeFromFileDiff(fd)
		if change.Filename() == "" {
			continue
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func changeFromFileDiff(fd *godiff.FileDiff) fileChange {
	change := fileChange{
		OrigPath: cleanPath(fd.OrigName),
		NewPath:  cleanPath(fd.NewName),
	}

	// Pure renames and mode-only changes carry no ---/+++ lines, so the
	// names may only be present in the extended header.
	var header fileChange
	added, deleted := false, false
	for _, line := range fd.Extended {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			header = parseGitHeader(strings.TrimPrefix(line, "diff --git "))
		case strings.HasPrefix(line, "rename from "):
			header.OrigPath = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			header.NewPath = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "new file mode"):
			added = true
		case strings.HasPrefix(line, "deleted file mode"):
			deleted = true
		}
	}

	if fd.OrigName == "" && fd.NewName == "" {
		change = header
	}
	if added || fd.OrigName == devNull {
		change.OrigPath = ""
	}
	if deleted || fd.NewName == devNull {
		change.NewPath = ""
	}
	return change
}

// parseGitHeader splits "a/<orig> b/<new>". Paths containing " b/" are
// ambiguous; the rename lines, when present, take precedence.
func parseGitHeader(rest string) fileChange {
	idx := strings.Index(rest, " b/")
	if idx < 0 || !strings.HasPrefix(rest, "a/") {
		return fileChange{}
	}
	return fileChange{OrigPath: rest[2:idx], NewPath: rest[idx+3:]}
}

// cleanPath removes the a/ or b/ prefix from git diff paths
func cleanPath(path string) string {
	if path == "" || path == devNull {
		return ""
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}
