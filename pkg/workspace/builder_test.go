package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestBuilder(t *testing.T) {
	ctx := context.Background()

	t.Run("Enumerates Relative Slash Paths", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "main.go", "package main")
		writeFile(t, root, filepath.Join("pkg", "util.go"), "package pkg")

		snap := NewBuilder(root).Build(ctx)

		assert.Equal(t, filepath.Base(root), snap.WorkspaceName)
		assert.ElementsMatch(t, []string{"main.go", "pkg/util.go"}, snap.Files)
	})

	t.Run("Skips VCS And Build Directories", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "keep.go", "x")
		writeFile(t, root, filepath.Join(".git", "HEAD"), "ref")
		writeFile(t, root, filepath.Join("node_modules", "dep.js"), "x")
		writeFile(t, root, filepath.Join("vendor", "lib.go"), "x")
		writeFile(t, root, filepath.Join(".hidden", "secret"), "x")

		snap := NewBuilder(root).Build(ctx)

		assert.Equal(t, []string{"keep.go"}, snap.Files)
	})

	t.Run("Caps File Count", func(t *testing.T) {
		root := t.TempDir()
		for _, name := range []string{"a", "b", "c", "d", "e"} {
			writeFile(t, root, name+".go", "x")
		}

		snap := NewBuilder(root, WithMaxFiles(3)).Build(ctx)

		assert.Len(t, snap.Files, 3)
	})

	t.Run("Nonpositive Cap Yields No Files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.go", "x")

		assert.Empty(t, NewBuilder(root, WithMaxFiles(0)).Build(ctx).Files)
		assert.Empty(t, NewBuilder(root, WithMaxFiles(-1)).Build(ctx).Files)
	})

	t.Run("Missing Root Never Fails", func(t *testing.T) {
		snap := NewBuilder(filepath.Join(t.TempDir(), "gone")).Build(ctx)

		assert.Empty(t, snap.Files)
		assert.Empty(t, snap.OpenFiles)
	})

	t.Run("Open Files Capped And Truncated", func(t *testing.T) {
		root := t.TempDir()
		src := OpenFileSourceFunc(func(ctx context.Context) []OpenFile {
			return []OpenFile{
				{Path: "one.go", Content: strings.Repeat("x", 50)},
				{Path: "two.go", Content: "short"},
				{Path: "three.go", Content: "dropped"},
			}
		})

		snap := NewBuilder(root,
			WithMaxOpenFiles(2),
			WithMaxOpenFileBytes(10),
			WithOpenFileSource(src),
		).Build(ctx)

		require.Len(t, snap.OpenFiles, 2)
		assert.Equal(t, strings.Repeat("x", 10), snap.OpenFiles[0].Content)
		assert.Equal(t, "short", snap.OpenFiles[1].Content)
	})
}

func TestPinnedFileSource(t *testing.T) {
	ctx := context.Background()

	root := t.TempDir()
	writeFile(t, root, "pinned.go", "package pinned")

	src := &PinnedFileSource{Root: root, Paths: []string{"pinned.go", "missing.go"}}
	open := src.OpenFiles(ctx)

	require.Len(t, open, 1)
	assert.Equal(t, "pinned.go", open[0].Path)
	assert.Equal(t, "package pinned", open[0].Content)
}

func TestTruncate(t *testing.T) {
	t.Run("Short Content Unchanged", func(t *testing.T) {
		assert.Equal(t, "abc", Truncate("abc", 10))
	})

	t.Run("Exact Length Unchanged", func(t *testing.T) {
		assert.Equal(t, "abc", Truncate("abc", 3))
	})

	t.Run("Long Content Cut", func(t *testing.T) {
		assert.Equal(t, "ab", Truncate("abcd", 2))
	})

	t.Run("Non Positive Cap", func(t *testing.T) {
		assert.Equal(t, "", Truncate("abc", 0))
	})
}

// Property: a truncated string is never longer than the cap and is always a
// prefix of the input.
func TestTruncateProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("bounded prefix", prop.ForAll(
		func(s string, max int) bool {
			out := Truncate(s, max)
			if max <= 0 {
				return out == ""
			}
			return len(out) <= max && strings.HasPrefix(s, out)
		},
		gen.AnyString(),
		gen.IntRange(-5, 64),
	))

	properties.TestingRun(t)
}
