package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	KIND_BRANCH = "branch"
	KIND_TREE = "tree"
	KIND_CONTENT = "content"
)

// CachingSource puts an ArborCache in front of a hostapi.Source.
// concurrent identical calls are collapsed into one remote call.
// failures are never cached.
//
// the collapsed call runs detached from any one caller's context so a
// caller going away doesn't fail the others; each caller only stops
// waiting. `CallTimeout` bounds the detached call (0 means no bound
// beyond the inner source's own).
type CachingSource struct {
	Inner hostapi.Source
	Cache ArborCache
	TTL time.Duration
	CallTimeout time.Duration
	group singleflight.Group
}

func NewCachingSource(inner hostapi.Source, c ArborCache, ttl time.Duration) *CachingSource {
	if c == nil { c = NoCache{} }
	return &CachingSource{
		Inner: inner,
		Cache: c,
		TTL: ttl,
	}
}

func cacheKey(kind string, repo hostapi.Repository, parts ...string) string {
	k := fmt.Sprintf("%s:%s", kind, repo.FullName())
	for _, p := range parts { k = k + ":" + p }
	return k
}

// fetchThrough returns the cached json for `key` or calls `f`, caches
// its json and returns it. `v` is filled in either way.
func (cs *CachingSource) fetchThrough(ctx context.Context, kind string, key string, v any, f func(context.Context) (any, error)) error {
	b, ok, err := cs.Cache.Get(ctx, key)
	if err != nil {
		// a broken cache shouldn't take the browser down with it.
		logging.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		ok = false
	}
	metrics.RecordCacheLookup(kind, ok)
	if ok {
		err = json.Unmarshal(b, v)
		if err == nil { return nil }
		logging.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
	}
	ch := cs.group.DoChan(key, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		if cs.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, cs.CallTimeout)
			defer cancel()
		}
		start := time.Now()
		r, err := f(callCtx)
		metrics.RecordRemoteFetch(kind, err == nil, time.Since(start))
		if err != nil { return nil, err }
		b, err := json.Marshal(r)
		if err != nil { return nil, err }
		err = cs.Cache.Set(callCtx, key, b, cs.TTL)
		if err != nil {
			logging.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		return b, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil { return res.Err }
		return json.Unmarshal(res.Val.([]byte), v)
	}
}

func (cs *CachingSource) ResolveBranch(ctx context.Context, repo hostapi.Repository, branch string) (string, error) {
	var res string
	err := cs.fetchThrough(ctx, KIND_BRANCH, cacheKey(KIND_BRANCH, repo, branch), &res, func(ctx context.Context) (any, error) {
		return cs.Inner.ResolveBranch(ctx, repo, branch)
	})
	if err != nil { return "", err }
	return res, nil
}

func (cs *CachingSource) ListTree(ctx context.Context, repo hostapi.Repository, treeId string) ([]filetree.PathRecord, error) {
	var res []filetree.PathRecord
	err := cs.fetchThrough(ctx, KIND_TREE, cacheKey(KIND_TREE, repo, treeId), &res, func(ctx context.Context) (any, error) {
		return cs.Inner.ListTree(ctx, repo, treeId)
	})
	if err != nil { return nil, err }
	return res, nil
}

func (cs *CachingSource) FetchContent(ctx context.Context, repo hostapi.Repository, ref string, p string) (*hostapi.Content, error) {
	var res hostapi.Content
	err := cs.fetchThrough(ctx, KIND_CONTENT, cacheKey(KIND_CONTENT, repo, ref, p), &res, func(ctx context.Context) (any, error) {
		return cs.Inner.FetchContent(ctx, repo, ref, p)
	})
	if err != nil { return nil, err }
	return &res, nil
}
