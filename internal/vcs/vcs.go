// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vcs reads baseline file content and working tree status from git.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrNoRepository is returned when a path is not inside a git work tree
	ErrNoRepository = errors.New("not a git repository")
	// ErrNotTracked is returned when a file has no committed version
	ErrNotTracked = errors.New("file not tracked at HEAD")
	// ErrGitUnavailable is returned when the git executable cannot be found
	ErrGitUnavailable = errors.New("git executable not found")
)

// Provider returns the committed content a working file is compared with.
type Provider interface {
	Baseline(ctx context.Context, path string) (string, error)
}

// ResolveBaseline fetches the baseline of path from p. Files outside a
// repository or without a committed version resolve to an empty baseline
// with found set to false, so that every line shows as added.
func ResolveBaseline(ctx context.Context, p Provider, path string) (content string, found bool, err error) {
	content, err = p.Baseline(ctx, path)
	switch {
	case err == nil:
		return content, true, nil
	case errors.Is(err, ErrNotTracked), errors.Is(err, ErrNoRepository):
		return "", false, nil
	default:
		return "", false, err
	}
}

// =============================================================================
// GIT
// =============================================================================

// Git is a Provider backed by the git command line.
type Git struct {
	Dir string // Working directory for repository-wide commands
	log zerolog.Logger
}

// NewGit returns a Git rooted at dir.
func NewGit(dir string, log zerolog.Logger) *Git {
	return &Git{Dir: dir, log: log.With().Str("component", "vcs").Logger()}
}

// run executes git in dir and returns its standard output.
// CANCELLATION: Context enables timeout and cancellation
func (g *Git) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrGitUnavailable
		}
		g.log.Debug().Strs("args", args).Str("dir", dir).Str("stderr", strings.TrimSpace(stderr.String())).Msg("git failed")
		return nil, &commandError{args: args, err: err, stderr: strings.TrimSpace(stderr.String())}
	}
	return output, nil
}

// commandError is a failed git invocation.
type commandError struct {
	args   []string
	err    error
	stderr string
}

func (e *commandError) Error() string {
	if e.stderr != "" {
		return fmt.Sprintf("git %s: %v: %s", strings.Join(e.args, " "), e.err, e.stderr)
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.args, " "), e.err)
}

func (e *commandError) Unwrap() error { return e.err }

// exited reports whether err is git running and exiting non-zero.
func exited(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// Root returns the top-level directory of the work tree containing dir.
func (g *Git) Root(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if exited(err) {
			return "", fmt.Errorf("%s: %w", dir, ErrNoRepository)
		}
		return "", err
	}
	return filepath.FromSlash(strings.TrimSpace(string(out))), nil
}

// Baseline returns the content of path at HEAD.
func (g *Git) Baseline(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	if _, err := g.Root(ctx, dir); err != nil {
		return "", err
	}

	// "./" makes the revision path relative to dir, so symlinked
	// checkouts resolve the same way git sees them.
	out, err := g.run(ctx, dir, "show", "HEAD:./"+filepath.Base(abs))
	if err != nil {
		if exited(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotTracked)
		}
		return "", err
	}

	g.log.Debug().Str("path", path).Int("bytes", len(out)).Msg("loaded baseline")
	return string(out), nil
}
