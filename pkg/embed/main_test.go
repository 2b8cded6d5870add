package embed

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type fakeSource struct {
	lock sync.Mutex
	repos map[string][]filetree.PathRecord
	loaded []string
}

func (fs *fakeSource) ResolveBranch(ctx context.Context, repo hostapi.Repository, branch string) (string, error) {
	if _, ok := fs.repos[repo.FullName()]; !ok { return "", &hostapi.StatusError{ StatusCode: 404 } }
	return repo.FullName() + "@" + branch, nil
}

func (fs *fakeSource) ListTree(ctx context.Context, repo hostapi.Repository, treeId string) ([]filetree.PathRecord, error) {
	fs.lock.Lock()
	fs.loaded = append(fs.loaded, treeId)
	fs.lock.Unlock()
	return fs.repos[repo.FullName()], nil
}

func (fs *fakeSource) FetchContent(ctx context.Context, repo hostapi.Repository, ref string, p string) (*hostapi.Content, error) {
	return nil, errors.New("not used")
}

func newEmbedder() (*Embedder, *fakeSource) {
	src := &fakeSource{
		repos: map[string][]filetree.PathRecord{
			"octo/demo": {
				{ Path: "README.md", SizeBytes: 10 },
				{ Path: "node_modules/x/index.js", SizeBytes: 10 },
				{ Path: "src/app.go", SizeBytes: 10 },
			},
		},
	}
	return &Embedder{
		Source: src,
		View: view.BrowserViewOptions{ Sorter: filetree.NewSorter("en") },
		DefaultExcludePaths: []string{ "node_modules" },
		Concurrency: 2,
	}, src
}

func TestDiscover(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`
<div id="a" data-repo-browser data-repo-url="https://github.com/octo/demo" data-branch="dev" data-max-file-size="2048" data-exclude-paths=" dist/, ,.git/ "></div>
<p data-repo-url="ignored"></p>
<section><span id="b" data-repo-browser="" data-repo-url="octo/other" data-max-file-size="lots"></span></section>`))
	require.NoError(t, err)
	ms := Discover(doc)
	require.Len(t, ms, 2)
	assert.Equal(t, "https://github.com/octo/demo", ms[0].RepositoryURL)
	assert.Equal(t, "dev", ms[0].Branch)
	assert.Equal(t, int64(2048), ms[0].MaxFileSize)
	assert.Equal(t, []string{ "dist/", ".git/" }, ms[0].ExcludePaths)
	assert.Equal(t, "octo/other", ms[1].RepositoryURL)
	assert.Equal(t, int64(0), ms[1].MaxFileSize)
	assert.Nil(t, ms[1].ExcludePaths)
}

func TestProcess_PopulatesMarkers(t *testing.T) {
	e, src := newEmbedder()
	page := `<html><body>
<div data-repo-browser data-repo-url="https://github.com/octo/demo">placeholder</div>
<div id="keep" data-repo-browser data-repo-url="::::">untouched</div>
<div data-repo-browser data-repo-url="octo/missing"></div>
</body></html>`
	b := new(bytes.Buffer)
	n, err := e.Process(context.Background(), strings.NewReader(page), b)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	out := b.String()
	assert.NotContains(t, out, "placeholder")
	assert.Contains(t, out, "README.md")
	assert.Contains(t, out, "src")
	assert.NotContains(t, out, "node_modules")
	assert.Contains(t, out, `<div id="keep" data-repo-browser="" data-repo-url="::::">untouched</div>`)
	assert.Contains(t, out, "octo/missing")
	assert.Contains(t, out, "may be private")
	// only the repository that resolved gets its tree listed.
	assert.Equal(t, []string{ "octo/demo@main" }, src.loaded)
}

func TestProcess_ExplicitEmptyExcludeOverridesDefault(t *testing.T) {
	e, _ := newEmbedder()
	page := `<div data-repo-browser data-repo-url="octo/demo" data-exclude-paths=""></div>`
	b := new(bytes.Buffer)
	n, err := e.Process(context.Background(), strings.NewReader(page), b)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, b.String(), "node_modules")
}

func TestProcess_FileLinksGoToServer(t *testing.T) {
	e, _ := newEmbedder()
	e.BaseURL = "https://arbor.example"
	page := `<div data-repo-browser data-repo-url="octo/demo" data-branch="main" data-max-file-size="5000" data-exclude-paths=""></div>`
	b := new(bytes.Buffer)
	_, err := e.Process(context.Background(), strings.NewReader(page), b)
	require.NoError(t, err)
	assert.Contains(t, b.String(),
		`href="https://arbor.example/browse?branch=main&amp;exclude-paths=&amp;max-file-size=5000&amp;path=README.md&amp;repo=octo%2Fdemo"`)
}

func TestProcess_FileLinksDefaultToSiteRoot(t *testing.T) {
	e, _ := newEmbedder()
	page := `<div data-repo-browser data-repo-url="octo/demo"></div>`
	b := new(bytes.Buffer)
	_, err := e.Process(context.Background(), strings.NewReader(page), b)
	require.NoError(t, err)
	assert.Contains(t, b.String(), `href="/browse?path=src%2Fapp.go&amp;repo=octo%2Fdemo"`)
	assert.NotContains(t, b.String(), `href="?path=`)
}

func TestSplitExcludePaths(t *testing.T) {
	assert.Equal(t, []string{ "a", "b/c" }, SplitExcludePaths(" a,,b/c ,"))
	assert.Equal(t, []string{}, SplitExcludePaths(""))
}
