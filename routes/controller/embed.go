package controller

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/bctnry/arbor/pkg/logging"
	. "github.com/bctnry/arbor/routes"
	"go.uber.org/zap"
)

const MAX_EMBED_DOCUMENT_SIZE = 4 * 1024 * 1024

func bindEmbedController(ctx *RouterContext, mux *http.ServeMux) {
	mux.HandleFunc("POST /embed", UseMiddleware(
		[]Middleware{Logged, RateLimit}, ctx,
		func(rc *RouterContext, w http.ResponseWriter, r *http.Request) {
			body := http.MaxBytesReader(w, r.Body, MAX_EMBED_DOCUMENT_SIZE)
			out := new(bytes.Buffer)
			n, err := rc.Embedder().Process(r.Context(), body, out)
			if err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					w.WriteHeader(413)
					return
				}
				rc.ReportInternalError(err.Error(), w, r)
				return
			}
			logging.Debug("embedding pass done", zap.Int("populated", n))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, err = w.Write(out.Bytes())
			LogIfError("writing embedded page", err)
		},
	))
}
