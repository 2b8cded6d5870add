package controller

import (
	"html/template"
	"net/http"

	"github.com/bctnry/arbor/pkg/view"
	. "github.com/bctnry/arbor/routes"
	"github.com/bctnry/arbor/templates"
)

func bindIndexController(ctx *RouterContext, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			LogTemplateError(rc.LoadTemplate("index").Execute(w, templates.IndexTemplateModel{
				Config: rc.Config,
				RepositoryURL: q.Get("repo"),
				Branch: q.Get("branch"),
			}))
		},
	))
}

func bindBrowseController(ctx *RouterContext, mux *http.ServeMux) {
	mux.HandleFunc("GET /browse", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			req := parseBrowserRequest(r.URL.Query())
			if req.RepositoryURL == "" {
				rc.ReportNormalError("A repository url is required.", w, r)
				return
			}
			s, err := runBrowser(rc, r.Context(), req)
			if err != nil {
				reportBrowserError(rc, err, w, r)
				return
			}
			browserHTML := view.RenderString(view.BrowserView(s, rc.ViewOptions(r.URL, req)))
			LogTemplateError(rc.LoadTemplate("browse").Execute(w, templates.BrowseTemplateModel{
				Config: rc.Config,
				RepositoryURL: req.RepositoryURL,
				RepositoryFullName: s.Options.Repository.FullName(),
				Branch: s.Branch,
				Browser: template.HTML(browserHTML),
			}))
		},
	))
}
