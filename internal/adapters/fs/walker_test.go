package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lull/internal/adapters/fs"
	"go.trai.ch/lull/internal/core/domain"
)

func makeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if filepath.Ext(p) == "" {
			require.NoError(t, os.MkdirAll(full, domain.DirPerm))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), domain.DirPerm))
		require.NoError(t, os.WriteFile(full, []byte("x"), domain.FilePerm))
	}
}

func TestScanner_Count(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root,
		"a.txt",
		"src/main.go",
		"src/lib/util.go",
		"empty",
		".git/HEAD.ref",
		"web/node_modules/pkg/index.js",
	)

	t.Run("WithDefaultIgnores", func(t *testing.T) {
		count, err := fs.NewScanner(domain.DefaultIgnorePatterns()).Count(context.Background(), root)
		require.NoError(t, err)
		// a.txt, src, src/main.go, src/lib, src/lib/util.go, empty, web
		assert.Equal(t, 7, count)
	})

	t.Run("WithoutIgnores", func(t *testing.T) {
		count, err := fs.NewScanner(nil).Count(context.Background(), root)
		require.NoError(t, err)
		// the above plus .git, .git/HEAD.ref, web/node_modules, pkg, index.js
		assert.Equal(t, 12, count)
	})

	t.Run("CustomGlob", func(t *testing.T) {
		count, err := fs.NewScanner(append(domain.DefaultIgnorePatterns(), "*.go")).Count(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}

func TestScanner_Count_EmptyRoot(t *testing.T) {
	count, err := fs.NewScanner(nil).Count(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScanner_Count_MissingRoot(t *testing.T) {
	_, err := fs.NewScanner(nil).Count(context.Background(), filepath.Join(t.TempDir(), "gone"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRootPath)
}

func TestScanner_Count_Cancelled(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a.txt", "b.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewScanner(nil).Count(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanner_Count_InvalidPattern(t *testing.T) {
	_, err := fs.NewScanner([]string{"[bad"}).Count(context.Background(), t.TempDir())
	require.ErrorIs(t, err, domain.ErrInvalidPattern)
}
