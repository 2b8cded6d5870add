package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	records []filetree.PathRecord
	contents map[string]string
}

func (s *stubSource) ResolveBranch(ctx context.Context, repo hostapi.Repository, branch string) (string, error) {
	if branch != "master" { return "", &hostapi.StatusError{ StatusCode: 404, URL: branch } }
	return "t1", nil
}

func (s *stubSource) ListTree(ctx context.Context, repo hostapi.Repository, treeId string) ([]filetree.PathRecord, error) {
	return s.records, nil
}

func (s *stubSource) FetchContent(ctx context.Context, repo hostapi.Repository, ref string, p string) (*hostapi.Content, error) {
	c, ok := s.contents[p]
	if !ok { return nil, &hostapi.StatusError{ StatusCode: 404, URL: p } }
	return &hostapi.Content{ Path: p, Size: int64(len(c)), Data: c }, nil
}

func newStubSource() *stubSource {
	return &stubSource{
		records: []filetree.PathRecord{
			{ Path: "README.md", ContentId: "b1", SizeBytes: 6 },
			{ Path: "src/main.go", ContentId: "b2", SizeBytes: 12 },
			{ Path: "src/lib/util.go", ContentId: "b3", SizeBytes: 12 },
			{ Path: "node_modules/x.js", ContentId: "b4", SizeBytes: 1 },
			{ Path: "big.bin", ContentId: "b5", SizeBytes: 500000 },
		},
		contents: map[string]string{
			"README.md": "# demo",
			"src/main.go": "package main",
		},
	}
}

// runs the root command with `args`, resetting the flag state a previous
// run may have left behind.
func execute(t *testing.T, src hostapi.Source, args ...string) (string, error) {
	t.Helper()
	oldSource := newSource
	newSource = func(cfg *arbor.ArborConfig) (hostapi.Source, error) { return src, nil }
	t.Cleanup(func() { newSource = oldSource })
	configPath, verbose, noColor = "", false, false
	treeBranch, treeExclude, treeFlat, treeLocale = "", "", false, ""
	catBranch, catStyle = "", "monokai"
	embedOutput, embedBaseURL = "", ""
	if c, _, err := rootCmd.Find([]string{"tree"}); err == nil {
		c.Flags().Lookup("exclude").Changed = false
	}
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTree_Nested(t *testing.T) {
	out, err := execute(t, newStubSource(), "tree", "octo/demo")
	require.NoError(t, err)
	assert.Equal(t, `octo/demo @ master (4 files)
src/
  lib/
    util.go
  main.go
big.bin
README.md
`, out)
}

func TestTree_FlatWithExclude(t *testing.T) {
	out, err := execute(t, newStubSource(), "tree", "https://github.com/octo/demo", "--flat", "--exclude", "lib/,big")
	require.NoError(t, err)
	// the flag replaces the default list, so node_modules shows up.
	assert.Equal(t, `octo/demo @ master (3 files)
node_modules/x.js
src/main.go
README.md
`, out)
}

func TestTree_InvalidURL(t *testing.T) {
	_, err := execute(t, newStubSource(), "tree", "not a repo")
	assert.Error(t, err)
}

func TestCat_PlainWhenNotTerminal(t *testing.T) {
	out, err := execute(t, newStubSource(), "cat", "octo/demo", "src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", out)
}

func TestCat_TooLarge(t *testing.T) {
	out, err := execute(t, newStubSource(), "cat", "octo/demo", "big.bin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileTooLarge))
	assert.Equal(t, "https://github.com/octo/demo/blob/master/big.bin\n", out)
}

func TestCat_Missing(t *testing.T) {
	_, err := execute(t, newStubSource(), "cat", "octo/demo", "nope.txt")
	assert.Error(t, err)
}

func TestEmbed_File(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.html")
	require.NoError(t, os.WriteFile(in, []byte(`<html><body><div data-repo-browser data-repo-url="octo/demo"></div></body></html>`), 0644))
	out, err := execute(t, newStubSource(), "embed", in)
	require.NoError(t, err)
	assert.Contains(t, out, "arbor-browser")
	assert.Contains(t, out, "src/main.go")
	assert.Contains(t, out, `href="/browse?path=src%2Fmain.go&amp;repo=octo%2Fdemo"`)
}

func TestEmbed_BaseURL(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.html")
	require.NoError(t, os.WriteFile(in, []byte(`<div data-repo-browser data-repo-url="octo/demo"></div>`), 0644))
	out, err := execute(t, newStubSource(), "embed", in, "--base-url", "https://arbor.example/")
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://arbor.example/browse?path=README.md&amp;repo=octo%2Fdemo"`)
	assert.Contains(t, out, `href="https://arbor.example/browse?path=src%2Fmain.go&amp;repo=octo%2Fdemo"`)
}

func TestInitConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "arbor.json")
	out, err := execute(t, newStubSource(), "init-config", p)
	require.NoError(t, err)
	assert.Contains(t, out, p)
	cfg, err := arbor.LoadConfigFile(p)
	require.NoError(t, err)
	assert.Equal(t, arbor.DEFAULT_BRANCH, cfg.Default.Branch)
}
