package routes

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/cache"
	"github.com/bctnry/arbor/pkg/embed"
	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/highlight"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/view"
	"github.com/bctnry/arbor/pkg/widget"
	"github.com/bctnry/arbor/templates"
)

type RouterContext struct {
	Config *arbor.ArborConfig
	MasterTemplate *template.Template
	// the remote api, usually behind a cache.CachingSource.
	Source hostapi.Source
	Cache cache.ArborCache
	WidgetStore widget.ArborWidgetStore
	Highlighter *highlight.ChromaHighlighter
	Sorter filetree.Sorter
	RateLimiter *RateLimiter
}

func (ctx *RouterContext) LoadTemplate(name string) *template.Template {
	return LoadTemplate(ctx.MasterTemplate, name)
}

func (ctx *RouterContext) reportError(code int, msg string, w http.ResponseWriter) {
	w.WriteHeader(code)
	LogTemplateError(ctx.LoadTemplate("error").Execute(w,
		templates.ErrorTemplateModel{
			Config: ctx.Config,
			ErrorCode: code,
			ErrorMessage: msg,
		},
	))
}

func (ctx *RouterContext) ReportNotFound(objName string, objType string, w http.ResponseWriter, r *http.Request) {
	ctx.reportError(404, fmt.Sprintf("%s %s not found.", objType, objName), w)
}

func (ctx *RouterContext) ReportNormalError(msg string, w http.ResponseWriter, r *http.Request) {
	ctx.reportError(400, fmt.Sprintf("Error: %s", msg), w)
}

func (ctx *RouterContext) ReportInternalError(msg string, w http.ResponseWriter, r *http.Request) {
	ctx.reportError(500, fmt.Sprintf("Internal error: %s", msg), w)
}

// the remote repository api failed us.
func (ctx *RouterContext) ReportUpstreamError(msg string, w http.ResponseWriter, r *http.Request) {
	ctx.reportError(502, msg, w)
}

func (ctx *RouterContext) ReportRouteError(err *RouteError, w http.ResponseWriter, r *http.Request) {
	switch err.ErrorType {
	case NOT_FOUND: ctx.reportError(404, err.ErrorMsg, w)
	case BAD_REQUEST: ctx.reportError(400, err.ErrorMsg, w)
	default: ctx.reportError(500, err.ErrorMsg, w)
	}
}

// BrowserRequest is what a page asks a browser for: a repository,
// and optionally a branch, size limit, exclusions and a file to show.
// zero values are replaced by the configured defaults.
type BrowserRequest struct {
	RepositoryURL string
	Branch string
	MaxFileSize int64
	ExcludePaths []string
	Path string
}

func (ctx *RouterContext) NewController(req BrowserRequest) (*browser.Controller, error) {
	branch := req.Branch
	if branch == "" { branch = ctx.Config.Default.Branch }
	maxFileSize := req.MaxFileSize
	if maxFileSize <= 0 { maxFileSize = ctx.Config.Default.MaxFileSize }
	exclude := req.ExcludePaths
	if exclude == nil { exclude = ctx.Config.Default.ExcludePaths }
	return browser.NewControllerFromURL(ctx.Source, req.RepositoryURL, branch, maxFileSize, exclude)
}

// ViewOptions makes file links point at `pageURL` with the `path`
// query parameter replaced; the raw link goes to /raw with the rest of
// `req` carried along.
func (ctx *RouterContext) ViewOptions(pageURL *url.URL, req BrowserRequest) view.BrowserViewOptions {
	var h highlight.Highlighter = nil
	if ctx.Highlighter != nil { h = ctx.Highlighter }
	return view.BrowserViewOptions{
		Sorter: ctx.Sorter,
		Highlighter: h,
		HTMLBaseURL: ctx.Config.API.HTMLBaseURL,
		RenderDocuments: true,
		FileHref: func(p string) string {
			u := *pageURL
			q := u.Query()
			q.Set(view.QUERY_PATH, p)
			u.RawQuery = q.Encode()
			return u.RequestURI()
		},
		RawHref: func(p string) string {
			return "/raw?" + req.LinkParams().Query(p).Encode()
		},
	}
}

// the request minus the selected path, for links back into the browser.
func (req BrowserRequest) LinkParams() view.LinkParams {
	return view.LinkParams{
		RepositoryURL: req.RepositoryURL,
		Branch: req.Branch,
		MaxFileSize: req.MaxFileSize,
		ExcludePaths: req.ExcludePaths,
	}
}

func (ctx *RouterContext) Embedder() *embed.Embedder {
	var h highlight.Highlighter = nil
	if ctx.Highlighter != nil { h = ctx.Highlighter }
	return &embed.Embedder{
		Source: ctx.Source,
		View: view.BrowserViewOptions{
			Sorter: ctx.Sorter,
			Highlighter: h,
			HTMLBaseURL: ctx.Config.API.HTMLBaseURL,
		},
		DefaultExcludePaths: ctx.Config.Default.ExcludePaths,
		BaseURL: ctx.Config.ProperHTTPHostName(),
		Concurrency: 4,
	}
}
