package controller

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/embed"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/view"
	. "github.com/bctnry/arbor/routes"
	"go.uber.org/zap"
)

// reads repo, branch, path, max-file-size & exclude-paths off a
// query string or a parsed form.
func parseBrowserRequest(v url.Values) BrowserRequest {
	res := BrowserRequest{
		RepositoryURL: strings.TrimSpace(v.Get(view.QUERY_REPO)),
		Branch: strings.TrimSpace(v.Get(view.QUERY_BRANCH)),
		Path: strings.Trim(v.Get(view.QUERY_PATH), "/"),
	}
	if s := strings.TrimSpace(v.Get(view.QUERY_MAX_FILE_SIZE)); s != "" {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil && i > 0 { res.MaxFileSize = i }
	}
	if v.Has(view.QUERY_EXCLUDE_PATHS) {
		res.ExcludePaths = embed.SplitExcludePaths(v.Get(view.QUERY_EXCLUDE_PATHS))
	}
	return res
}

// runBrowser loads the repository and, if a path was asked for,
// selects it. load and fetch failures end up in the returned state;
// only a bad configuration (or something unexpected) is an error.
func runBrowser(ctx *RouterContext, rctx context.Context, req BrowserRequest) (browser.State, error) {
	c, err := ctx.NewController(req)
	if err != nil { return browser.State{}, err }
	err = c.Load(rctx)
	if err != nil {
		k, ok := browser.KindOf(err)
		if !ok || k != browser.LOAD_FAILURE { return browser.State{}, err }
		return c.Snapshot(), nil
	}
	if req.Path != "" {
		err = c.Select(rctx, req.Path)
		if err != nil {
			k, ok := browser.KindOf(err)
			if !ok || k != browser.FILE_FETCH_FAILURE { return browser.State{}, err }
			logging.Info("file fetch failed",
				zap.String("repositoryURL", req.RepositoryURL),
				zap.String("path", req.Path),
				zap.Error(err))
		}
	}
	return c.Snapshot(), nil
}

// maps `err` from runBrowser onto a status. a bad browser config is
// the client's fault; anything else is ours.
func browserRouteError(err error) *RouteError {
	var be *browser.BrowserError
	if !errors.As(err, &be) { return NewRouteError(OTHER_ERROR, err.Error()) }
	if be.Kind == browser.INVALID_CONFIGURATION {
		return NewRouteError(BAD_REQUEST, "Error: " + be.Message)
	}
	return NewRouteError(OTHER_ERROR, "Internal error: " + be.Error())
}

func reportBrowserError(ctx *RouterContext, err error, w http.ResponseWriter, r *http.Request) {
	ctx.ReportRouteError(browserRouteError(err), w, r)
}
