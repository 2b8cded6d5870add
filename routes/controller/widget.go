package controller

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/bctnry/arbor/pkg/embed"
	"github.com/bctnry/arbor/pkg/view"
	"github.com/bctnry/arbor/pkg/widget"
	. "github.com/bctnry/arbor/routes"
	"github.com/bctnry/arbor/templates"
)

const (
	DEFAULT_WIDGET_PAGE_SIZE = 20
	MAX_WIDGET_PAGE_SIZE = 100
)

// the markup a page needs to host the same browser through the
// embedding pass.
func embedSnippet(inst *widget.Instance) string {
	attrs := view.A(embed.ATTR_MARKER, "", embed.ATTR_REPO_URL, inst.RepositoryURL)
	if inst.Branch != "" { attrs = append(attrs, embed.ATTR_BRANCH, inst.Branch) }
	if inst.MaxFileSize > 0 {
		attrs = append(attrs, embed.ATTR_MAX_FILE_SIZE, strconv.FormatInt(inst.MaxFileSize, 10))
	}
	if inst.ExcludePaths != nil {
		attrs = append(attrs, embed.ATTR_EXCLUDE_PATHS, strings.Join(inst.ExcludePaths, ","))
	}
	return view.RenderString(view.El("div", attrs))
}

func lookupInstance(rc *RouterContext, w http.ResponseWriter, r *http.Request) *widget.Instance {
	id := r.PathValue("id")
	if !widget.IsValidInstanceId(id) {
		rc.ReportNotFound(id, "Widget", w, r)
		return nil
	}
	inst, err := rc.WidgetStore.GetInstance(r.Context(), id)
	if errors.Is(err, widget.ErrInstanceNotFound) {
		rc.ReportNotFound(id, "Widget", w, r)
		return nil
	}
	if err != nil {
		rc.ReportInternalError(err.Error(), w, r)
		return nil
	}
	return inst
}

func bindWidgetController(ctx *RouterContext, mux *http.ServeMux) {
	mux.HandleFunc("GET /w", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			pageNum, err := strconv.Atoi(q.Get("p"))
			if err != nil || pageNum < 0 { pageNum = 0 }
			pageSize, err := strconv.Atoi(q.Get("s"))
			if err != nil || pageSize <= 0 { pageSize = DEFAULT_WIDGET_PAGE_SIZE }
			if pageSize > MAX_WIDGET_PAGE_SIZE { pageSize = MAX_WIDGET_PAGE_SIZE }
			// one extra to know whether there's a next page.
			l, err := rc.WidgetStore.GetAllInstance(r.Context(), pageNum, pageSize+1)
			if err != nil {
				rc.ReportInternalError(err.Error(), w, r)
				return
			}
			hasNext := len(l) > pageSize
			if hasNext { l = l[:pageSize] }
			LogTemplateError(rc.LoadTemplate("widget-list").Execute(w, templates.WidgetListTemplateModel{
				Config: rc.Config,
				InstanceList: l,
				PageNum: pageNum,
				PageSize: pageSize,
				HasPrevPage: pageNum > 0,
				HasNextPage: hasNext,
			}))
		},
	))

	mux.HandleFunc("POST /w", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			err := r.ParseForm()
			if err != nil {
				rc.ReportNormalError("Invalid request.", w, r)
				return
			}
			req := parseBrowserRequest(r.PostForm)
			// an empty field means "use the default", not "exclude nothing".
			if len(req.ExcludePaths) <= 0 { req.ExcludePaths = nil }
			inst, err := widget.NewInstance(req.RepositoryURL, req.Branch, req.MaxFileSize, req.ExcludePaths)
			if err != nil {
				rc.ReportNormalError(err.Error(), w, r)
				return
			}
			err = rc.WidgetStore.CreateInstance(r.Context(), inst)
			if err != nil {
				rc.ReportInternalError(err.Error(), w, r)
				return
			}
			FoundAt(w, "/w/" + inst.Id)
		},
	))

	mux.HandleFunc("GET /w/{id}", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			inst := lookupInstance(rc, w, r)
			if inst == nil { return }
			req := BrowserRequest{
				RepositoryURL: inst.RepositoryURL,
				Branch: inst.Branch,
				MaxFileSize: inst.MaxFileSize,
				ExcludePaths: inst.ExcludePaths,
				Path: parseBrowserRequest(r.URL.Query()).Path,
			}
			s, err := runBrowser(rc, r.Context(), req)
			if err != nil {
				reportBrowserError(rc, err, w, r)
				return
			}
			browserHTML := view.RenderString(view.BrowserView(s, rc.ViewOptions(r.URL, req)))
			LogTemplateError(rc.LoadTemplate("widget").Execute(w, templates.WidgetTemplateModel{
				Config: rc.Config,
				Instance: inst,
				Browser: template.HTML(browserHTML),
				EmbedSnippet: embedSnippet(inst),
			}))
		},
	))

	mux.HandleFunc("POST /w/{id}/delete", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			inst := lookupInstance(rc, w, r)
			if inst == nil { return }
			err := rc.WidgetStore.DeleteInstance(r.Context(), inst.Id)
			if err != nil {
				rc.ReportInternalError(err.Error(), w, r)
				return
			}
			FoundAt(w, "/w")
		},
	))
}
