package vcs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultShowConcurrency = 8

// Runner runs git with args in dir and returns its standard output.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ExecRunner runs the git binary found on PATH.
func ExecRunner(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"-c", "core.quotePath=false"}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
	}
	return out, nil
}

// Git lists changed files by shelling out to git.
type Git struct {
	Dir    string
	Logger *slog.Logger
	// Run and LookPath default to the git binary on PATH.
	Run      Runner
	LookPath func(file string) (string, error)
	// Concurrency bounds the parallel "git show" calls.
	Concurrency int
}

// NewGit returns a Git lister for the repository containing dir.
func NewGit(dir string, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.Default()
	}
	return &Git{
		Dir:         dir,
		Logger:      logger,
		Run:         ExecRunner,
		LookPath:    exec.LookPath,
		Concurrency: defaultShowConcurrency,
	}
}

var _ Lister = (*Git)(nil)

// ListChangedFiles implements Lister. Git being unavailable or failing is
// not an error: the failure is logged and no files are returned.
func (g *Git) ListChangedFiles(ctx context.Context, branch string, useParent bool) ([]ChangedFile, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return nil, ErrBranchRequired
	}
	logger := g.logger().With("branch", branch, "parent", useParent)

	if _, err := g.lookPath()("git"); err != nil {
		logger.Warn("git is not available, no changed files", "error", err)
		return []ChangedFile{}, nil
	}

	remote := "origin/" + branch
	base := remote
	diffArgs := []string{"diff", "--no-color", "--no-ext-diff", "--unified=0", "--diff-filter=AMRD", "-M"}
	if useParent {
		out, err := g.run(ctx, "merge-base", remote, "HEAD")
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("could not find merge base", "error", err)
			return []ChangedFile{}, nil
		}
		base = strings.TrimSpace(string(out))
		logger.Debug("found merge base", "commit", base)
		diffArgs = append(diffArgs, base+"..")
	} else {
		diffArgs = append(diffArgs, remote)
	}

	out, err := g.run(ctx, diffArgs...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("git diff failed", "error", err)
		return []ChangedFile{}, nil
	}

	changes, err := parseChanges(out)
	if err != nil {
		logger.Warn("could not parse git diff", "error", err)
		return []ChangedFile{}, nil
	}
	logger.Debug("found changed files", "count", len(changes))

	files, err := g.readContents(ctx, base, changes)
	if err != nil {
		return nil, err
	}
	return files, nil
}

// readContents fetches the before (at base) and after (at HEAD) text of
// every change. A missing blob leaves that side empty.
func (g *Git) readContents(ctx context.Context, base string, changes []fileChange) ([]ChangedFile, error) {
	files := make([]ChangedFile, len(changes))

	group, groupCtx := errgroup.WithContext(ctx)
	if g.Concurrency > 0 {
		group.SetLimit(g.Concurrency)
	}

	for i, change := range changes {
		i, change := i, change
		files[i].Filename = change.Filename()
		if change.OrigPath != "" {
			group.Go(func() error {
				text, err := g.show(groupCtx, base, change.OrigPath)
				files[i].Before = text
				return err
			})
		}
		if change.NewPath != "" {
			group.Go(func() error {
				text, err := g.show(groupCtx, "HEAD", change.NewPath)
				files[i].After = text
				return err
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// show returns the file at rev:path. Only cancellation is reported as an
// error; any other failure yields empty text.
func (g *Git) show(ctx context.Context, rev, path string) (string, error) {
	out, err := g.run(ctx, "show", rev+":"+path)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		g.logger().Debug("git show failed", "rev", rev, "path", path, "error", err)
		return "", nil
	}
	return string(out), nil
}

func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	run := g.Run
	if run == nil {
		run = ExecRunner
	}
	return run(ctx, g.Dir, args...)
}

func (g *Git) lookPath() func(string) (string, error) {
	if g.LookPath == nil {
		return exec.LookPath
	}
	return g.LookPath
}

func (g *Git) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
