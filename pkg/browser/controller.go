package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/metrics"
	"go.uber.org/zap"
)

// Controller drives one browser instance against a Source. the lock
// is only ever held while applying a transition, never across a
// remote call.
type Controller struct {
	source hostapi.Source
	lock sync.Mutex
	state State
	// cancels the fetch of the previous selection, if still running.
	cancelFetch context.CancelFunc
}

func NewController(src hostapi.Source, opts Options) (*Controller, error) {
	err := opts.Validate()
	if err != nil { return nil, err }
	return &Controller{
		source: src,
		state: NewState(opts),
	}, nil
}

// NewControllerFromURL parses `repoURL` the way the page attributes
// give it to us.
func NewControllerFromURL(src hostapi.Source, repoURL string, branch string, maxFileSize int64, exclude []string) (*Controller, error) {
	repo, err := hostapi.ParseRepositoryURL(repoURL)
	if err != nil {
		return nil, NewBrowserError(INVALID_CONFIGURATION, fmt.Sprintf("%q is not a repository url", repoURL), err)
	}
	return NewController(src, Options{
		Repository: repo,
		Branch: branch,
		MaxFileSize: maxFileSize,
		ExcludePaths: exclude,
	})
}

func (c *Controller) Snapshot() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Controller) apply(f func(State) State) State {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.state = f(c.state)
	return c.state
}

// Load runs Idle -> Loading -> Ready | Error. the returned error is a
// *BrowserError of kind LOAD_FAILURE when the state ended in Error.
func (c *Controller) Load(ctx context.Context) error {
	c.lock.Lock()
	s, err := StartLoad(c.state)
	if err != nil { c.lock.Unlock(); return err }
	c.state = s
	c.lock.Unlock()

	repo := s.Options.Repository
	var treeId string
	for {
		branch := s.Branch
		treeId, err = c.source.ResolveBranch(ctx, repo, branch)
		if err == nil { break }
		logging.Info("branch lookup failed",
			zap.String("repository", repo.FullName()),
			zap.String("branch", branch),
			zap.Error(err))
		retry := false
		c.lock.Lock()
		c.state, retry = BranchFailed(c.state)
		s = c.state
		c.lock.Unlock()
		if !retry {
			return NewBrowserError(LOAD_FAILURE, s.LoadError, err)
		}
		metrics.RecordBranchFallback()
	}
	s = c.apply(func(s State) State { return BranchResolved(s, treeId) })

	records, err := c.source.ListTree(ctx, repo, treeId)
	if err != nil {
		s = c.apply(TreeFailed)
		return NewBrowserError(LOAD_FAILURE, s.LoadError, err)
	}
	s = c.apply(func(s State) State { return TreeLoaded(s, records) })
	logging.Debug("repository loaded",
		zap.String("repository", repo.FullName()),
		zap.String("branch", s.Branch),
		zap.Int("files", s.Tree.FileCount()))
	return nil
}

// Reload throws the current tree away and loads again.
func (c *Controller) Reload(ctx context.Context) error {
	c.lock.Lock()
	if c.cancelFetch != nil { c.cancelFetch(); c.cancelFetch = nil }
	c.state = Reset(c.state)
	c.lock.Unlock()
	return c.Load(ctx)
}

// Select selects the file at `p` and, unless it settles right away,
// fetches its content. a newer Select cancels this one's fetch and
// this one's result is then dropped with ErrSuperseded.
func (c *Controller) Select(ctx context.Context, p string) error {
	c.lock.Lock()
	s, action, err := Select(c.state, p)
	if err != nil { c.lock.Unlock(); return err }
	c.state = s
	if c.cancelFetch != nil { c.cancelFetch(); c.cancelFetch = nil }
	if action != ACTION_FETCH {
		c.lock.Unlock()
		switch s.File {
		case FILE_TOO_LARGE:
			metrics.RecordFileTooLarge()
		case FILE_ERROR:
			return NewBrowserError(FILE_FETCH_FAILURE, s.FileError, nil)
		}
		return nil
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel
	gen := s.Generation
	c.lock.Unlock()
	defer cancel()

	content, err := c.source.FetchContent(fetchCtx, s.Options.Repository, s.Branch, p)
	var text string
	if err == nil { text, err = content.Decode() }

	c.lock.Lock()
	defer c.lock.Unlock()
	applied := false
	if err != nil {
		msg := fmt.Sprintf("Could not load %s.", p)
		c.state, applied = FileFailed(c.state, gen, msg)
		if !applied { return ErrSuperseded }
		return NewBrowserError(FILE_FETCH_FAILURE, msg, err)
	}
	c.state, applied = FileFetched(c.state, gen, text)
	if !applied { return ErrSuperseded }
	return nil
}
