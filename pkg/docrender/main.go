package docrender

import (
	"path"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/niklasfasching/go-org/org"
)

type DocumentType int

const (
	NOT_DOCUMENT DocumentType = iota
	MARKDOWN
	ORG
)

func DetectDocumentType(p string) DocumentType {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown": return MARKDOWN
	case ".org": return ORG
	}
	return NOT_DOCUMENT
}

// Render turns a markdown or org document into sanitized html. the
// second return value is false when `p` is not a document type we
// know.
func Render(p string, source string) (string, bool) {
	policy := bluemonday.UGCPolicy()
	switch DetectDocumentType(p) {
	case MARKDOWN:
		rs := string(markdown.ToHTML([]byte(source), nil, nil))
		return policy.Sanitize(rs), true
	case ORG:
		doc := org.New().Parse(strings.NewReader(source), p)
		out, err := doc.Write(org.NewHTMLWriter())
		if err != nil {
			// go-org gives up on some malformed documents; show the
			// source instead of nothing.
			return "<pre>" + policy.Sanitize(escapeForPre(source)) + "</pre>", true
		}
		return policy.Sanitize(out), true
	}
	return "", false
}

func escapeForPre(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
