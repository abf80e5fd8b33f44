package glob

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/testhooks/changed-test-ids/internal/fileutil"
)

// Expand returns the files under root matching pattern, as sorted
// slash-separated paths relative to root. Absolute patterns yield absolute
// paths. A base directory that does not exist yields no files.
func Expand(root, pattern string, excludes *Excludes) ([]string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	return p.Expand(root, excludes)
}

// Expand walks the pattern's static base below root.
func (p *Pattern) Expand(root string, excludes *Excludes) ([]string, error) {
	absolute := strings.HasPrefix(p.raw, "/")
	start := filepath.FromSlash(p.base)
	if !absolute {
		start = filepath.Join(root, start)
	}

	info, err := os.Stat(start)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{}, nil
	}

	descend := excludes == nil || !excludes.hasNegation()
	matches := make([]string, 0)
	err = filepath.Walk(start, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(relPath, "..") {
			relPath, err = filepath.Rel(start, path)
			if err != nil {
				return err
			}
		}

		if excludes.Skip(relPath, info.IsDir()) {
			if info.IsDir() && descend {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		name := filepath.ToSlash(relPath)
		if absolute {
			name = filepath.ToSlash(path)
		}
		if p.Match(name) {
			matches = append(matches, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	matches = fileutil.DedupeStrings(matches)
	sort.Strings(matches)
	return matches, nil
}

func (e *Excludes) hasNegation() bool {
	for _, r := range e.rules {
		if r.negated {
			return true
		}
	}
	return false
}
