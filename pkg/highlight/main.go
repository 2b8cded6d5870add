package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns source text into markup. the output is trusted
// by the renderer, so implementations must escape the source
// themselves.
type Highlighter interface {
	// `lang` may be empty, in which case `filename` is used to guess.
	Highlight(lang string, filename string, source string) (string, error)
}

type ChromaHighlighter struct {
	style *chroma.Style
	formatter *html.Formatter
}

func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	// styles.Get falls back to a default style on unknown names.
	return &ChromaHighlighter{
		style: styles.Get(styleName),
		formatter: html.New(
			html.WithClasses(true),
			html.WithLineNumbers(true),
			html.LineNumbersInTable(true),
			html.WithLinkableLineNumbers(true, "L"),
		),
	}
}

func resolveLexer(lang string, filename string, source string) chroma.Lexer {
	var l chroma.Lexer
	if lang != "" { l = lexers.Get(lang) }
	if l == nil && filename != "" { l = lexers.Match(filename) }
	if l == nil { l = lexers.Analyse(source) }
	if l == nil { l = lexers.Fallback }
	return chroma.Coalesce(l)
}

func (ch *ChromaHighlighter) Highlight(lang string, filename string, source string) (string, error) {
	it, err := resolveLexer(lang, filename, source).Tokenise(nil, source)
	if err != nil { return "", err }
	b := new(strings.Builder)
	err = ch.formatter.Format(b, ch.style, it)
	if err != nil { return "", err }
	return b.String(), nil
}

// WriteCSS writes the stylesheet matching the classes Highlight emits.
func (ch *ChromaHighlighter) WriteCSS(w io.Writer) error {
	return ch.formatter.WriteCSS(w, ch.style)
}

// HighlightTerminal writes `source` with ansi colors. used by the cli
// when stdout is a terminal.
func HighlightTerminal(w io.Writer, styleName string, lang string, filename string, source string) error {
	it, err := resolveLexer(lang, filename, source).Tokenise(nil, source)
	if err != nil { return err }
	f := formatters.Get("terminal256")
	if f == nil { f = formatters.Fallback }
	return f.Format(w, styles.Get(styleName), it)
}
