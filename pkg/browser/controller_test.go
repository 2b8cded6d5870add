package browser

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

// fakeSource serves a fixed listing. branches missing from `branches`
// fail; `block` holds back a path's content until its channel closes.
type fakeSource struct {
	lock sync.Mutex
	branches map[string]string
	records []filetree.PathRecord
	contents map[string]*hostapi.Content
	block map[string]chan struct{}
	treeErr error

	branchAttempts []string
	fetched []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		branches: map[string]string{ "main": "t-main" },
		records: []filetree.PathRecord{
			{ Path: "README.md", ContentId: "b1", SizeBytes: 5 },
			{ Path: "src/a.go", ContentId: "b2", SizeBytes: 10 },
			{ Path: "src/b.go", ContentId: "b3", SizeBytes: 10 },
			{ Path: "big.bin", ContentId: "b4", SizeBytes: 200000 },
			{ Path: "node_modules/x.js", ContentId: "b5", SizeBytes: 1 },
		},
		contents: map[string]*hostapi.Content{
			"README.md": { Path: "README.md", Encoding: hostapi.ENCODING_BASE64, Data: "aGVsbG8=" },
			"src/a.go": { Path: "src/a.go", Data: "package a" },
			"src/b.go": { Path: "src/b.go", Data: "package b" },
		},
		block: map[string]chan struct{}{},
	}
}

func (f *fakeSource) ResolveBranch(ctx context.Context, repo hostapi.Repository, branch string) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.branchAttempts = append(f.branchAttempts, branch)
	id, ok := f.branches[branch]
	if !ok { return "", errNotFound }
	return id, nil
}

func (f *fakeSource) ListTree(ctx context.Context, repo hostapi.Repository, treeId string) ([]filetree.PathRecord, error) {
	if f.treeErr != nil { return nil, f.treeErr }
	return f.records, nil
}

func (f *fakeSource) FetchContent(ctx context.Context, repo hostapi.Repository, ref string, p string) (*hostapi.Content, error) {
	f.lock.Lock()
	f.fetched = append(f.fetched, p)
	ch := f.block[p]
	c, ok := f.contents[p]
	f.lock.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok { return nil, errNotFound }
	return c, nil
}

func (f *fakeSource) fetchedPaths() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string{}, f.fetched...)
}

var repo = hostapi.Repository{ Owner: "o", Name: "r" }

func newReadyController(t *testing.T, src *fakeSource) *Controller {
	c, err := NewController(src, Options{ Repository: repo, ExcludePaths: []string{ "node_modules" } })
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestLoad_Ready(t *testing.T) {
	src := newFakeSource()
	c := newReadyController(t, src)
	s := c.Snapshot()
	assert.Equal(t, LOAD_READY, s.Load)
	assert.Equal(t, "main", s.Branch)
	assert.Equal(t, "t-main", s.TreeId)
	assert.Equal(t, FILE_NO_SELECTION, s.File)
	_, ok := s.Tree.Lookup("node_modules")
	assert.False(t, ok)
	assert.Equal(t, 4, s.Tree.FileCount())
	assert.Equal(t, []string{ "main" }, src.branchAttempts)

	assert.ErrorIs(t, c.Load(context.Background()), ErrAlreadyLoaded)
}

func TestLoad_FallsBackToMaster(t *testing.T) {
	src := newFakeSource()
	src.branches = map[string]string{ "master": "t-master" }
	c := newReadyController(t, src)
	s := c.Snapshot()
	assert.Equal(t, LOAD_READY, s.Load)
	assert.Equal(t, "master", s.Branch)
	assert.Equal(t, "t-master", s.TreeId)
	assert.Equal(t, []string{ "main", "master" }, src.branchAttempts)
}

func TestLoad_BothBranchesFail(t *testing.T) {
	src := newFakeSource()
	src.branches = map[string]string{}
	c, err := NewController(src, Options{ Repository: repo })
	require.NoError(t, err)
	err = c.Load(context.Background())
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, LOAD_FAILURE, kind)
	assert.ErrorIs(t, err, errNotFound)

	s := c.Snapshot()
	assert.Equal(t, LOAD_ERROR, s.Load)
	assert.Contains(t, s.LoadError, "private")
	// no third attempt.
	assert.Equal(t, []string{ "main", "master" }, src.branchAttempts)
}

func TestLoad_NonDefaultBranchDoesNotFallBack(t *testing.T) {
	src := newFakeSource()
	c, err := NewController(src, Options{ Repository: repo, Branch: "develop" })
	require.NoError(t, err)
	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, []string{ "develop" }, src.branchAttempts)
	assert.Equal(t, LOAD_ERROR, c.Snapshot().Load)
}

func TestLoad_MasterConfiguredDoesNotFallBack(t *testing.T) {
	src := newFakeSource()
	src.branches = map[string]string{}
	c, err := NewController(src, Options{ Repository: repo, Branch: "master" })
	require.NoError(t, err)
	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, []string{ "master" }, src.branchAttempts)
}

func TestLoad_TreeFailure(t *testing.T) {
	src := newFakeSource()
	src.treeErr = errors.New("tree gone")
	c, err := NewController(src, Options{ Repository: repo })
	require.NoError(t, err)
	err = c.Load(context.Background())
	kind, _ := KindOf(err)
	assert.Equal(t, LOAD_FAILURE, kind)
	assert.Equal(t, LOAD_ERROR, c.Snapshot().Load)
	assert.Equal(t, []string{ "main" }, src.branchAttempts)
}

func TestNewControllerFromURL_Invalid(t *testing.T) {
	_, err := NewControllerFromURL(newFakeSource(), "definitely not a repo", "", 0, nil)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, INVALID_CONFIGURATION, kind)

	_, err = NewController(newFakeSource(), Options{})
	kind, _ = KindOf(err)
	assert.Equal(t, INVALID_CONFIGURATION, kind)
}

func TestNewControllerFromURL_Defaults(t *testing.T) {
	c, err := NewControllerFromURL(newFakeSource(), "https://github.com/o/r", "", 0, nil)
	require.NoError(t, err)
	s := c.Snapshot()
	assert.Equal(t, repo, s.Options.Repository)
	assert.Equal(t, "main", s.Options.Branch)
	assert.Equal(t, int64(100000), s.Options.MaxFileSize)
}

func TestSelect_DisplaysDecodedContent(t *testing.T) {
	src := newFakeSource()
	c := newReadyController(t, src)
	require.NoError(t, c.Select(context.Background(), "README.md"))
	s := c.Snapshot()
	assert.Equal(t, FILE_DISPLAYED, s.File)
	assert.Equal(t, "README.md", s.SelectedPath)
	assert.Equal(t, "hello", s.Content)
	assert.False(t, s.Binary)
}

func TestSelect_TooLargeSkipsFetch(t *testing.T) {
	src := newFakeSource()
	c := newReadyController(t, src)
	require.NoError(t, c.Select(context.Background(), "big.bin"))
	s := c.Snapshot()
	assert.Equal(t, FILE_TOO_LARGE, s.File)
	assert.Equal(t, int64(200000), s.FileSize)
	assert.Empty(t, src.fetchedPaths())
}

func TestSelect_FetchFailure(t *testing.T) {
	src := newFakeSource()
	delete(src.contents, "src/b.go")
	c := newReadyController(t, src)
	require.NoError(t, c.Select(context.Background(), "src/a.go"))

	err := c.Select(context.Background(), "src/b.go")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, FILE_FETCH_FAILURE, kind)
	s := c.Snapshot()
	assert.Equal(t, FILE_ERROR, s.File)
	assert.Equal(t, "src/b.go", s.SelectedPath)
	assert.Empty(t, s.Content)
	// the tree is unaffected.
	assert.Equal(t, LOAD_READY, s.Load)

	// and we can recover by selecting something else.
	require.NoError(t, c.Select(context.Background(), "src/a.go"))
	assert.Equal(t, FILE_DISPLAYED, c.Snapshot().File)
}

func TestSelect_UnknownPath(t *testing.T) {
	src := newFakeSource()
	c := newReadyController(t, src)
	err := c.Select(context.Background(), "src")
	kind, _ := KindOf(err)
	assert.Equal(t, FILE_FETCH_FAILURE, kind)
	assert.Equal(t, FILE_ERROR, c.Snapshot().File)
	assert.Empty(t, src.fetchedPaths())
}

func TestSelect_BeforeLoad(t *testing.T) {
	c, err := NewController(newFakeSource(), Options{ Repository: repo })
	require.NoError(t, err)
	assert.ErrorIs(t, c.Select(context.Background(), "README.md"), ErrNotReady)
}

func TestSelect_LatestSelectionWins(t *testing.T) {
	src := newFakeSource()
	gate := make(chan struct{})
	src.block["src/a.go"] = gate
	c := newReadyController(t, src)

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Select(context.Background(), "src/a.go") }()
	require.Eventually(t, func() bool { return len(src.fetchedPaths()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.Select(context.Background(), "src/b.go"))
	close(gate)
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)

	s := c.Snapshot()
	assert.Equal(t, FILE_DISPLAYED, s.File)
	assert.Equal(t, "src/b.go", s.SelectedPath)
	assert.Equal(t, "package b", s.Content)
}

func TestReload_ResetsSelection(t *testing.T) {
	src := newFakeSource()
	c := newReadyController(t, src)
	require.NoError(t, c.Select(context.Background(), "README.md"))
	before := c.Snapshot().Generation

	require.NoError(t, c.Reload(context.Background()))
	s := c.Snapshot()
	assert.Equal(t, LOAD_READY, s.Load)
	assert.Equal(t, FILE_NO_SELECTION, s.File)
	assert.Empty(t, s.SelectedPath)
	assert.Greater(t, s.Generation, before)
}
