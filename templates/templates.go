package templates

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/bctnry/arbor/pkg/fuzzytime"
)

//go:embed *.template.html
var templateFS embed.FS

var functionMap = template.FuncMap{
	"toFuzzyTime": func(ts int64) string {
		return fuzzytime.FromTimestamp(ts, time.Now())
	},
	"toPreciseTime": func(ts int64) string {
		return time.Unix(ts, 0).UTC().Format(time.RFC3339)
	},
	"add": func(a int, b int) int { return a + b },
	"joinComma": func(s []string) string {
		return strings.Join(s, ",")
	},
}

// LoadTemplate parses every template. each file defines templates
// named after itself, without the ".template.html" suffix.
func LoadTemplate() *template.Template {
	return template.Must(
		template.New("").Funcs(functionMap).ParseFS(templateFS, "*.template.html"),
	)
}
