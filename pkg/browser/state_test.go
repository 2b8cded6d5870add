package browser

import (
	"testing"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyState(t *testing.T) State {
	s, err := StartLoad(NewState(Options{ Repository: repo }))
	require.NoError(t, err)
	s = BranchResolved(s, "t")
	return TreeLoaded(s, []filetree.PathRecord{
		{ Path: "a.txt", SizeBytes: 10 },
		{ Path: "huge.txt", SizeBytes: 200000 },
	})
}

func TestBranchFailed_Transitions(t *testing.T) {
	s, err := StartLoad(NewState(Options{ Repository: repo }))
	require.NoError(t, err)
	assert.Equal(t, LOAD_LOADING, s.Load)
	assert.Equal(t, "main", s.Branch)

	s, retry := BranchFailed(s)
	assert.True(t, retry)
	assert.Equal(t, LOAD_LOADING, s.Load)
	assert.Equal(t, "master", s.Branch)

	s, retry = BranchFailed(s)
	assert.False(t, retry)
	assert.Equal(t, LOAD_ERROR, s.Load)
	assert.NotEmpty(t, s.LoadError)

	// terminal.
	s2, retry := BranchFailed(s)
	assert.False(t, retry)
	assert.Equal(t, s, s2)
}

func TestSelect_PureTooLarge(t *testing.T) {
	s := readyState(t)
	gen := s.Generation
	s, action, err := Select(s, "huge.txt")
	require.NoError(t, err)
	assert.Equal(t, ACTION_NONE, action)
	assert.Equal(t, FILE_TOO_LARGE, s.File)
	assert.Equal(t, gen+1, s.Generation)
}

func TestFileFetched_StaleGenerationIgnored(t *testing.T) {
	s := readyState(t)
	s, action, err := Select(s, "a.txt")
	require.NoError(t, err)
	require.Equal(t, ACTION_FETCH, action)
	stale := s.Generation

	s, _, err = Select(s, "a.txt")
	require.NoError(t, err)

	next, applied := FileFetched(s, stale, "old")
	assert.False(t, applied)
	assert.Equal(t, FILE_FETCHING, next.File)

	next, applied = FileFailed(s, stale, "old failure")
	assert.False(t, applied)
	assert.Equal(t, FILE_FETCHING, next.File)

	next, applied = FileFetched(s, s.Generation, "new")
	assert.True(t, applied)
	assert.Equal(t, FILE_DISPLAYED, next.File)
	assert.Equal(t, "new", next.Content)
}

func TestFileFetched_Binary(t *testing.T) {
	s := readyState(t)
	s, _, _ = Select(s, "a.txt")
	s, _ = FileFetched(s, s.Generation, "\x00\x01\x02")
	assert.True(t, s.Binary)
}

func TestReset(t *testing.T) {
	s := readyState(t)
	s, _, _ = Select(s, "a.txt")
	r := Reset(s)
	assert.Equal(t, LOAD_IDLE, r.Load)
	assert.Nil(t, r.Tree)
	assert.Equal(t, FILE_NO_SELECTION, r.File)
	assert.Greater(t, r.Generation, s.Generation)
}

func TestPhaseStrings(t *testing.T) {
	assert.Equal(t, "Ready", LOAD_READY.String())
	assert.Equal(t, "FileTooLarge", FILE_TOO_LARGE.String())
	assert.Equal(t, "LOAD_FAILURE", LOAD_FAILURE.String())
}
