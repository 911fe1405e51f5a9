// Package fs provides the file system scanner that counts tracked entries.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/lull/internal/pathmatch"
	"go.trai.ch/zerr"
)

var _ ports.Scanner = (*Scanner)(nil)

// Scanner counts files and directories below a root, skipping ignored paths.
type Scanner struct {
	ignore []string
}

// NewScanner creates a Scanner using the given ignore globs.
func NewScanner(ignore []string) *Scanner {
	return &Scanner{ignore: ignore}
}

// Count returns the number of entries below root, root itself excluded.
// Unreadable subdirectories are skipped; an unreadable root is an error.
func (s *Scanner) Count(ctx context.Context, root string) (int, error) {
	matcher, err := pathmatch.New(root, s.ignore)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, err := range s.Walk(ctx, root, matcher) {
		if err != nil {
			return 0, zerr.With(err, "root", root)
		}
		count++
	}
	return count, nil
}

// Walk yields every entry below root that the matcher does not ignore.
// The walk stops with an error when ctx is done or root cannot be read.
func (s *Scanner) Walk(ctx context.Context, root string, matcher *pathmatch.Matcher) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == root {
					return err
				}
				// Skip entries that vanished or cannot be read mid-walk.
				return nil
			}
			if path == root {
				return nil
			}
			if matcher.Match(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				walkErr = errors.Join(domain.ErrInvalidRootPath, walkErr)
			}
			yield("", walkErr)
		}
	}
}
