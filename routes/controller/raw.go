package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/hostapi"
	. "github.com/bctnry/arbor/routes"
)

func bindRawController(ctx *RouterContext, mux *http.ServeMux) {
	mux.HandleFunc("GET /raw", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			req := parseBrowserRequest(r.URL.Query())
			if req.RepositoryURL == "" || req.Path == "" {
				rc.ReportNormalError("A repository url and a path are required.", w, r)
				return
			}
			s, err := runBrowser(rc, r.Context(), req)
			if err != nil {
				reportBrowserError(rc, err, w, r)
				return
			}
			if s.Load == browser.LOAD_ERROR {
				rc.ReportUpstreamError(s.LoadError, w, r)
				return
			}
			switch s.File {
			case browser.FILE_TOO_LARGE:
				FoundAt(w, hostapi.HTMLURL(rc.Config.API.HTMLBaseURL, s.Options.Repository, s.Branch, s.SelectedPath))
			case browser.FILE_ERROR:
				if _, ok := s.Tree.LookupFile(s.SelectedPath); !ok {
					rc.ReportNotFound(s.SelectedPath, "File", w, r)
					return
				}
				rc.ReportUpstreamError(s.FileError, w, r)
			case browser.FILE_DISPLAYED:
				if s.Binary {
					w.Header().Set("Content-Type", "application/octet-stream")
				} else {
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				}
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.Header().Set("Content-Length", strconv.Itoa(len(s.Content)))
				_, err = w.Write([]byte(s.Content))
				LogIfError("writing raw content", err)
			default:
				rc.ReportInternalError(fmt.Sprintf("unexpected file state %s", s.File), w, r)
			}
		},
	))
}
