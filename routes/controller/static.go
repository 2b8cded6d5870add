package controller

import (
	"bytes"
	"net/http"

	"github.com/bctnry/arbor/pkg/metrics"
	. "github.com/bctnry/arbor/routes"
)

const treeStylesheet = `
.arbor-browser { display: flex; gap: 1em; font-family: sans-serif; }
.arbor-tree { min-width: 16em; max-width: 24em; overflow: auto; }
.arbor-tree-header { font-weight: bold; margin-bottom: 0.5em; }
.arbor-content { flex: 1; overflow: auto; }
.arbor-content-header { display: flex; gap: 1em; border-bottom: 1px solid #ddd; padding-bottom: 0.25em; }
.arbor-error { color: #b00020; }
.arbor-loading, .arbor-placeholder { color: #666; }
.file-tree-item-dir > details, .file-tree-item-dir > div { margin-left: 1em; }
.file-tree-item-dir > summary { cursor: pointer; }
.file-tree-item-file { margin-left: 1em; }
.file-tree-item-file.selected { font-weight: bold; }
.arbor-source pre { margin: 0; }
`

func bindStaticController(ctx *RouterContext, mux *http.ServeMux) {
	mux.HandleFunc("GET /static/arbor.css", UseMiddleware(
		[]Middleware{Logged}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			b.WriteString(treeStylesheet)
			if rc.Highlighter != nil {
				err := rc.Highlighter.WriteCSS(b)
				if err != nil {
					rc.ReportInternalError(err.Error(), w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			w.Header().Set("Cache-Control", "public, max-age=3600")
			_, err := w.Write(b.Bytes())
			LogIfError("writing stylesheet", err)
		},
	))
	if ctx.Config.StaticAssetDirectory != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(ctx.Config.StaticAssetDirectory)))
		mux.HandleFunc("GET /static/", WithLogHandler(fs))
	}
}

func bindMetricsController(ctx *RouterContext, mux *http.ServeMux) {
	mux.Handle("GET /metrics", metrics.Handler())
}
