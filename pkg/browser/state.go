package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/hostapi"
)

type LoadPhase int

const (
	LOAD_IDLE LoadPhase = iota
	LOAD_LOADING
	LOAD_READY
	LOAD_ERROR
)

func (p LoadPhase) String() string {
	switch p {
	case LOAD_IDLE: return "Idle"
	case LOAD_LOADING: return "Loading"
	case LOAD_READY: return "Ready"
	case LOAD_ERROR: return "Error"
	}
	return "Unknown"
}

type FilePhase int

const (
	FILE_NO_SELECTION FilePhase = iota
	FILE_FETCHING
	FILE_DISPLAYED
	FILE_ERROR
	FILE_TOO_LARGE
)

func (p FilePhase) String() string {
	switch p {
	case FILE_NO_SELECTION: return "NoSelection"
	case FILE_FETCHING: return "FetchingFile"
	case FILE_DISPLAYED: return "FileDisplayed"
	case FILE_ERROR: return "FileError"
	case FILE_TOO_LARGE: return "FileTooLarge"
	}
	return "Unknown"
}

const (
	MAIN_BRANCH = "main"
	MASTER_BRANCH = "master"
	DEFAULT_MAX_FILE_SIZE = 100000
)

// per-instance configuration.
type Options struct {
	Repository hostapi.Repository
	Branch string
	MaxFileSize int64
	ExcludePaths []string
}

func (o Options) normalized() Options {
	if strings.TrimSpace(o.Branch) == "" { o.Branch = MAIN_BRANCH }
	if o.MaxFileSize <= 0 { o.MaxFileSize = DEFAULT_MAX_FILE_SIZE }
	return o
}

func (o Options) Validate() error {
	if o.Repository.Owner == "" || o.Repository.Name == "" {
		return NewBrowserError(INVALID_CONFIGURATION, "repository owner and name are required", nil)
	}
	return nil
}

// State is everything one browser instance knows. the transition
// functions below take a State by value and hand back the next one,
// so the machine can be driven (and tested) without any network or
// page.
type State struct {
	Options Options

	Load LoadPhase
	// the branch being tried while loading, the one that worked once
	// ready.
	Branch string
	TreeId string
	Tree *filetree.FolderNode
	LoadError string

	File FilePhase
	SelectedPath string
	FileSize int64
	Content string
	// set when the decoded content is not text.
	Binary bool
	FileError string

	// bumped on every selection and every reload. a fetch result is
	// only applied if it carries the current generation.
	Generation uint64
}

func NewState(opts Options) State {
	o := opts.normalized()
	return State{ Options: o, Load: LOAD_IDLE, Branch: o.Branch, File: FILE_NO_SELECTION }
}

func (s State) clearSelection() State {
	s.File = FILE_NO_SELECTION
	s.SelectedPath = ""
	s.FileSize = 0
	s.Content = ""
	s.Binary = false
	s.FileError = ""
	return s
}

func loadErrorMessage(repo hostapi.Repository, branch string) string {
	return fmt.Sprintf(
		"Could not load %s (branch %s). The repository may be private or may not exist.",
		repo.FullName(), branch,
	)
}

// Idle -> Loading(configured branch).
func StartLoad(s State) (State, error) {
	if s.Load != LOAD_IDLE { return s, ErrAlreadyLoaded }
	s.Load = LOAD_LOADING
	s.Branch = s.Options.Branch
	s.LoadError = ""
	return s, nil
}

// BranchFailed handles a failed branch lookup. a failed "main" turns
// into one more attempt with "master"; anything else ends in Error.
// `retry` tells the driver whether to resolve `s.Branch` again.
func BranchFailed(s State) (next State, retry bool) {
	if s.Load != LOAD_LOADING { return s, false }
	if s.Branch == MAIN_BRANCH {
		s.Branch = MASTER_BRANCH
		return s, true
	}
	s.Load = LOAD_ERROR
	s.LoadError = loadErrorMessage(s.Options.Repository, s.Branch)
	return s, false
}

func BranchResolved(s State, treeId string) State {
	if s.Load != LOAD_LOADING { return s }
	s.TreeId = treeId
	return s
}

func TreeFailed(s State) State {
	if s.Load != LOAD_LOADING { return s }
	s.Load = LOAD_ERROR
	s.LoadError = loadErrorMessage(s.Options.Repository, s.Branch)
	return s
}

// Loading -> Ready. the tree is rebuilt from scratch and any selection
// is dropped.
func TreeLoaded(s State, records []filetree.PathRecord) State {
	if s.Load != LOAD_LOADING { return s }
	s.Load = LOAD_READY
	s.Tree = filetree.Build(records, s.Options.ExcludePaths)
	s.Generation += 1
	return s.clearSelection()
}

// Reset discards the tree and selection and goes back to Idle.
func Reset(s State) State {
	n := NewState(s.Options)
	n.Generation = s.Generation + 1
	return n
}

type Action int

const (
	ACTION_NONE Action = iota
	ACTION_FETCH
)

// Select makes `p` the selected file. files over the size limit and
// paths that aren't files in the tree settle immediately; otherwise
// the caller is asked to fetch (ACTION_FETCH) and report back with
// the returned state's Generation.
func Select(s State, p string) (State, Action, error) {
	if s.Load != LOAD_READY || s.Tree == nil { return s, ACTION_NONE, ErrNotReady }
	s.Generation += 1
	s = s.clearSelection()
	s.SelectedPath = p
	f, ok := s.Tree.LookupFile(p)
	if !ok {
		s.File = FILE_ERROR
		s.FileError = fmt.Sprintf("%s is not a file in this repository.", p)
		return s, ACTION_NONE, nil
	}
	s.FileSize = f.SizeBytes
	if f.SizeBytes > s.Options.MaxFileSize {
		s.File = FILE_TOO_LARGE
		return s, ACTION_NONE, nil
	}
	s.File = FILE_FETCHING
	return s, ACTION_FETCH, nil
}

// FileFetched applies fetched content if `gen` is still current.
func FileFetched(s State, gen uint64, content string) (State, bool) {
	if gen != s.Generation || s.File != FILE_FETCHING { return s, false }
	s.File = FILE_DISPLAYED
	s.Content = content
	s.Binary = !looksLikeText(content)
	return s, true
}

// FileFailed records a failed fetch if `gen` is still current.
func FileFailed(s State, gen uint64, msg string) (State, bool) {
	if gen != s.Generation || s.File != FILE_FETCHING { return s, false }
	s.File = FILE_ERROR
	s.FileError = msg
	return s, true
}

func looksLikeText(s string) bool {
	if !utf8.ValidString(s) { return false }
	return !strings.ContainsRune(s, 0)
}
