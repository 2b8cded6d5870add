package routes

import (
	"html/template"
	"net/http"

	"github.com/bctnry/arbor/pkg/logging"
	"go.uber.org/zap"
)

// for errors nothing can be done about anymore, e.g. a client that
// went away mid-response.
func LogIfError(msg string, err error) {
	if err != nil { logging.Error(msg, zap.Error(err)) }
}

// go don't have ufcs so i'll have to suffer.
func WithLog(f http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logging.Info("request",
			zap.String("remoteAddr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		f(w, r)
	}
}
func WithLogHandler(f http.Handler) http.HandlerFunc {
	return WithLog(f.ServeHTTP)
}

func FoundAt(w http.ResponseWriter, p string) {
	w.Header().Add("Content-Length", "0")
	w.Header().Add("Location", p)
	w.WriteHeader(302)
}

func LoadTemplate(t *template.Template, name string) *template.Template {
	res := t.Lookup(name)
	if res == nil { logging.Fatal("failed to find template", zap.String("name", name)) }
	return res
}

func LogTemplateError(e error) {
	if e != nil { logging.Error("template error", zap.Error(e)) }
}
