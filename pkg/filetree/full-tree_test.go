package filetree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recs(paths ...string) []PathRecord {
	res := make([]PathRecord, 0, len(paths))
	for i, p := range paths {
		res = append(res, PathRecord{ Path: p, ContentId: "id-" + p, SizeBytes: int64(i) })
	}
	return res
}

// collect every file reachable from fn with its reconstructed path.
func leaves(fn *FolderNode, prefix []string, out map[string]*FileNode) {
	for name, item := range fn.Children {
		switch v := item.(type) {
		case *FileNode:
			out[strings.Join(append(append([]string{}, prefix...), name), "/")] = v
		case *FolderNode:
			leaves(v, append(append([]string{}, prefix...), name), out)
		}
	}
}

func TestBuild_ReconstructsEveryPath(t *testing.T) {
	input := recs(
		"README.md",
		"src/main.go",
		"src/pkg/a/a.go",
		"src/pkg/a/b.go",
		"src/pkg/c.go",
		"docs/guide/intro.md",
		".github/workflows/ci.yml",
	)
	root := Build(input, nil)

	got := make(map[string]*FileNode)
	leaves(root, nil, got)
	require.Len(t, got, len(input))
	for _, rec := range input {
		f, ok := got[rec.Path]
		require.True(t, ok, "missing %s", rec.Path)
		assert.Equal(t, rec.Path, f.Path)
		assert.Equal(t, rec.ContentId, f.ContentId)
		assert.Equal(t, rec.SizeBytes, f.SizeBytes)
	}
}

func TestBuild_Exclude(t *testing.T) {
	root := Build(recs("src/a.js", "node_modules/x.js"), []string{"node_modules"})

	got := make(map[string]*FileNode)
	leaves(root, nil, got)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "src/a.js")
	_, ok := root.Children["node_modules"]
	assert.False(t, ok, "excluded folder should not be created")
}

func TestBuild_ExcludeIsSubstringMatch(t *testing.T) {
	root := Build(recs("lib/.git/config", "lib/gitignore.txt", "x/build/out.o", "rebuild.sh"), []string{".git", "build/"})
	got := make(map[string]*FileNode)
	leaves(root, nil, got)
	assert.Contains(t, got, "lib/gitignore.txt")
	assert.Contains(t, got, "rebuild.sh")
	assert.NotContains(t, got, "lib/.git/config")
	assert.NotContains(t, got, "x/build/out.o")
}

func TestBuild_DuplicatePathLaterWins(t *testing.T) {
	root := Build([]PathRecord{
		{ Path: "a/b.txt", ContentId: "first", SizeBytes: 1 },
		{ Path: "a/b.txt", ContentId: "second", SizeBytes: 2 },
	}, nil)
	f, ok := root.LookupFile("a/b.txt")
	require.True(t, ok)
	assert.Equal(t, "second", f.ContentId)
	assert.Equal(t, int64(2), f.SizeBytes)
}

func TestBuild_FolderReplacesFile(t *testing.T) {
	root := Build(recs("a", "a/b"), nil)
	n, ok := root.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, DIRECTORY, n.GetType())
	_, ok = root.LookupFile("a/b")
	assert.True(t, ok)
}

func TestBuild_EmptySegments(t *testing.T) {
	root := Build(recs("/lead.txt", "trail/", "a//b"), nil)
	lead, ok := root.Children[""].(*FolderNode)
	require.True(t, ok)
	assert.Contains(t, lead.Children, "lead.txt")

	trail, ok := root.Children["trail"].(*FolderNode)
	require.True(t, ok)
	f, ok := trail.Children[""].(*FileNode)
	require.True(t, ok)
	assert.Equal(t, "", f.Name)
	assert.Equal(t, "trail/", f.Path)

	_, ok = root.LookupFile("a//b")
	assert.True(t, ok)
}

func TestBuild_Empty(t *testing.T) {
	root := Build(nil, nil)
	require.NotNil(t, root)
	assert.Empty(t, root.Children)
	assert.Equal(t, 0, root.FileCount())
}

func TestLookup(t *testing.T) {
	root := Build(recs("src/pkg/a.go", "src/b.go"), nil)
	n, ok := root.Lookup("")
	require.True(t, ok)
	assert.Same(t, root, n)

	n, ok = root.Lookup("src/pkg")
	require.True(t, ok)
	assert.Equal(t, DIRECTORY, n.GetType())

	_, ok = root.Lookup("src/b.go/c")
	assert.False(t, ok)
	_, ok = root.Lookup("nope")
	assert.False(t, ok)
	_, ok = root.LookupFile("src/pkg")
	assert.False(t, ok)
}

func TestCounts(t *testing.T) {
	root := Build(recs("a/b/c.txt", "a/d.txt", "e.txt"), nil)
	assert.Equal(t, 3, root.FileCount())
	assert.Equal(t, 2, root.FolderCount())
}
