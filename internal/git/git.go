// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git reads committed source files so a revision can be scanned
// without checking it out.
// Implements: prd008-git-integration R1, R2;
//
//	docs/ARCHITECTURE § Git Integration.
package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultRevision is scanned when no revision is given.
const DefaultRevision = "HEAD"

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// ErrUnknownRevision is returned when a revision cannot be resolved.
var ErrUnknownRevision = errors.New("unknown revision")

// Config configures repository access.
type Config struct {
	WorkDir string // Repository working directory or any directory below it
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	cfg  Config
}

// File is a committed file's path and content.
type File struct {
	Path    string // slash separated, relative to the repository root
	Content []byte
}

// Open opens the git repository containing the configured work directory.
// Returns ErrNoGit if there is none.
//
// Implements: prd008-git-integration R1.1.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, cfg: cfg}, nil
}

// Resolve returns the commit hash a revision names. An empty revision means
// DefaultRevision.
//
// Implements: prd008-git-integration R1.2.
func (r *Repo) Resolve(rev string) (string, error) {
	c, err := r.commit(rev)
	if err != nil {
		return "", err
	}
	return c.Hash.String(), nil
}

func (r *Repo) commit(rev string) (*object.Commit, error) {
	if rev == "" {
		rev = DefaultRevision
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownRevision, rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit %s: %w", hash, err)
	}
	return c, nil
}

// Files returns the text files in the tree at rev for which accept returns
// true, sorted by path. A nil accept takes every file. Binary files are
// skipped.
//
// Implements: prd008-git-integration R2.1, R2.2.
func (r *Repo) Files(ctx context.Context, rev string, accept func(path string) bool) ([]File, error) {
	c, err := r.commit(rev)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree: %w", err)
	}

	var files []File
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if accept != nil && !accept(f.Name) {
			return nil
		}
		binary, err := f.IsBinary()
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
		if binary {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
		files = append(files, File{Path: f.Name, Content: []byte(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Root returns the working tree root. File paths are relative to it.
func (r *Repo) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged).
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}
