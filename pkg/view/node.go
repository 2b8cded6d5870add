package view

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// view nodes. pages are built as a tree of these and either handed to
// Render, or attached to a parsed document with AppendTo. nothing else
// writes markup, so everything that isn't Trusted goes through the
// escaping below (or html.Render's own).

type Node interface {
	renderTo(b *strings.Builder)
	appendTo(parent *html.Node) error
}

type Attr struct {
	Key string
	Value string
}

type Element struct {
	Tag string
	Attrs []Attr
	Children []Node
}

// Text is escaped when rendered.
type Text string

// Trusted is written out as-is. only for markup produced by the
// highlighter or the (sanitizing) document renderer.
type Trusted string

// a list of nodes with no wrapper element.
type Fragment []Node

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "meta": true, "link": true,
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&#34;",
	"'", "&#39;",
)

func EscapeText(s string) string { return textEscaper.Replace(s) }
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }

func validName(s string) bool {
	if len(s) <= 0 { return false }
	for _, ch := range s {
		if !(ch == '-' || ch == '_' || ch == ':' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')) {
			return false
		}
	}
	return true
}

func (e *Element) renderTo(b *strings.Builder) {
	// tag & attribute names are always literals in our code, but a
	// bad one would break out of the element so they're dropped.
	if !validName(e.Tag) { return }
	b.WriteString("<")
	b.WriteString(e.Tag)
	for _, a := range e.Attrs {
		if !validName(a.Key) { continue }
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=\"")
		b.WriteString(EscapeAttr(a.Value))
		b.WriteString("\"")
	}
	b.WriteString(">")
	if voidElements[e.Tag] { return }
	for _, c := range e.Children {
		if c != nil { c.renderTo(b) }
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")
}

func (t Text) renderTo(b *strings.Builder) { b.WriteString(EscapeText(string(t))) }
func (t Trusted) renderTo(b *strings.Builder) { b.WriteString(string(t)) }
func (f Fragment) renderTo(b *strings.Builder) {
	for _, c := range f {
		if c != nil { c.renderTo(b) }
	}
}

func (e *Element) appendTo(parent *html.Node) error {
	if !validName(e.Tag) { return nil }
	res := &html.Node{
		Type: html.ElementNode,
		Data: e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
	}
	for _, a := range e.Attrs {
		if !validName(a.Key) { continue }
		res.Attr = append(res.Attr, html.Attribute{ Key: a.Key, Val: a.Value })
	}
	parent.AppendChild(res)
	if voidElements[e.Tag] { return nil }
	for _, c := range e.Children {
		if c == nil { continue }
		err := c.appendTo(res)
		if err != nil { return err }
	}
	return nil
}

func (t Text) appendTo(parent *html.Node) error {
	parent.AppendChild(&html.Node{ Type: html.TextNode, Data: string(t) })
	return nil
}

// trusted markup is parsed in the context of the element it goes into.
func (t Trusted) appendTo(parent *html.Node) error {
	nodes, err := html.ParseFragment(strings.NewReader(string(t)), parent)
	if err != nil { return err }
	for _, k := range nodes { parent.AppendChild(k) }
	return nil
}

func (f Fragment) appendTo(parent *html.Node) error {
	for _, c := range f {
		if c == nil { continue }
		err := c.appendTo(parent)
		if err != nil { return err }
	}
	return nil
}

// AppendTo adds `n` as the last children of `parent`, an element of a
// parsed document.
func AppendTo(parent *html.Node, n Node) error {
	if n == nil { return nil }
	return n.appendTo(parent)
}

func RenderString(n Node) string {
	b := new(strings.Builder)
	if n != nil { n.renderTo(b) }
	return b.String()
}

func Render(w io.Writer, n Node) error {
	_, err := io.WriteString(w, RenderString(n))
	return err
}

// El is a shorthand for building elements. `attrs` alternates keys
// and values.
func El(tag string, attrs []string, children ...Node) *Element {
	res := &Element{ Tag: tag, Children: children }
	for i := 0; i+1 < len(attrs); i += 2 {
		res.Attrs = append(res.Attrs, Attr{ Key: attrs[i], Value: attrs[i+1] })
	}
	return res
}

func A(kv ...string) []string { return kv }
