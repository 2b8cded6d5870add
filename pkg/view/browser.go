package view

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/docrender"
	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/highlight"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/langmap"
)

type BrowserViewOptions struct {
	Sorter filetree.Sorter
	// nil means content is shown without coloring.
	Highlighter highlight.Highlighter
	// link target for selecting a file. defaults to "?path=...".
	FileHref func(p string) string
	// link to the raw content of a file. no raw link when nil.
	RawHref func(p string) string
	// base of the hosting site, for the "view on remote" link.
	HTMLBaseURL string
	// show markdown/org files rendered instead of as source.
	RenderDocuments bool
}

func (o BrowserViewOptions) fileHref(p string) string {
	if o.FileHref != nil { return o.FileHref(p) }
	return "?path=" + url.QueryEscape(p)
}

// BrowserView projects a browser state into a view tree.
func BrowserView(s browser.State, opts BrowserViewOptions) Node {
	root := El("div", A("class", "arbor-browser", "data-state", s.Load.String()))
	switch s.Load {
	case browser.LOAD_IDLE, browser.LOAD_LOADING:
		root.Children = append(root.Children,
			El("div", A("class", "arbor-tree arbor-loading"), Text("Loading repository…")),
		)
	case browser.LOAD_ERROR:
		root.Children = append(root.Children,
			El("div", A("class", "arbor-tree arbor-error"), Text(s.LoadError)),
		)
	case browser.LOAD_READY:
		root.Children = append(root.Children, TreePanel(s, opts), ContentPanel(s, opts))
	}
	return root
}

func TreePanel(s browser.State, opts BrowserViewOptions) Node {
	header := El("div", A("class", "arbor-tree-header"),
		El("span", A("class", "arbor-repo-name"), Text(s.Options.Repository.FullName())),
		Text(" @ "),
		El("span", A("class", "arbor-branch"), Text(s.Branch)),
		El("span", A("class", "arbor-count"), Text(fmt.Sprintf(" (%d files)", s.Tree.FileCount()))),
	)
	list := El("div", A("class", "arbor-tree-list"))
	list.Children = treeItems(s.Tree, "", s.SelectedPath, opts)
	return El("div", A("class", "arbor-tree"), header, list)
}

func isAncestorOf(dir string, p string) bool {
	return p != "" && strings.HasPrefix(p, dir+"/")
}

func treeItems(fn *filetree.FolderNode, prefix string, selected string, opts BrowserViewOptions) []Node {
	res := make([]Node, 0, len(fn.Children))
	for _, item := range opts.Sorter.SortedEntries(fn) {
		p := item.GetName()
		if prefix != "" { p = prefix + "/" + p }
		switch v := item.(type) {
		case *filetree.FolderNode:
			attrs := A("class", "file-tree-item file-tree-item-dir")
			// collapsed unless the selection is somewhere inside.
			if isAncestorOf(p, selected) { attrs = append(attrs, "open", "open") }
			d := El("details", attrs, El("summary", nil, Text(v.Name)))
			d.Children = append(d.Children, treeItems(v, p, selected, opts)...)
			res = append(res, d)
		case *filetree.FileNode:
			cls := "file-tree-item file-tree-item-file"
			if v.Path == selected { cls += " selected" }
			res = append(res, El("div", A("class", cls),
				El("a", A("href", opts.fileHref(v.Path), "data-path", v.Path), Text(v.Name)),
			))
		}
	}
	return res
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20: return fmt.Sprintf("%.1f MiB", float64(n)/float64(1<<20))
	case n >= 1<<10: return fmt.Sprintf("%.1f KiB", float64(n)/float64(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func contentHeader(s browser.State, opts BrowserViewOptions) Node {
	h := El("div", A("class", "arbor-content-header"),
		El("span", A("class", "arbor-path"), Text(s.SelectedPath)),
		El("span", A("class", "arbor-size"), Text(humanSize(s.FileSize))),
	)
	if lang := langmap.Detect(s.SelectedPath); lang != "" {
		h.Children = append(h.Children, El("span", A("class", "arbor-lang"), Text(lang)))
	}
	if opts.RawHref != nil {
		h.Children = append(h.Children, El("a", A("class", "arbor-raw", "href", opts.RawHref(s.SelectedPath)), Text("raw")))
	}
	return h
}

// SourceView shows source text, colored when a highlighter is present
// and willing.
func SourceView(p string, source string, h highlight.Highlighter) Node {
	if h != nil {
		out, err := h.Highlight(langmap.Detect(p), p, source)
		if err == nil { return El("div", A("class", "arbor-source"), Trusted(out)) }
	}
	return El("div", A("class", "arbor-source"), El("pre", nil, El("code", nil, Text(source))))
}

func ContentPanel(s browser.State, opts BrowserViewOptions) Node {
	panel := El("div", A("class", "arbor-content", "data-state", s.File.String()))
	switch s.File {
	case browser.FILE_NO_SELECTION:
		panel.Children = append(panel.Children,
			El("div", A("class", "arbor-placeholder"), Text("Select a file to view its contents.")))
	case browser.FILE_FETCHING:
		panel.Children = append(panel.Children,
			El("div", A("class", "arbor-loading"), Text(fmt.Sprintf("Loading %s…", s.SelectedPath))))
	case browser.FILE_ERROR:
		panel.Children = append(panel.Children,
			El("div", A("class", "arbor-error"), Text(s.FileError)))
	case browser.FILE_TOO_LARGE:
		remote := hostapi.HTMLURL(opts.HTMLBaseURL, s.Options.Repository, s.Branch, s.SelectedPath)
		panel.Children = append(panel.Children,
			contentHeader(s, opts),
			El("div", A("class", "arbor-too-large"),
				Text(fmt.Sprintf(
					"%s is %s, which is over the %s display limit. ",
					s.SelectedPath, humanSize(s.FileSize), humanSize(s.Options.MaxFileSize),
				)),
				El("a", A("href", remote, "rel", "noopener"), Text("View it on the remote site.")),
			),
		)
	case browser.FILE_DISPLAYED:
		panel.Children = append(panel.Children, contentHeader(s, opts))
		if s.Binary {
			panel.Children = append(panel.Children,
				El("div", A("class", "arbor-placeholder"), Text("Binary file not shown.")))
			break
		}
		if opts.RenderDocuments {
			if out, ok := docrender.Render(s.SelectedPath, s.Content); ok {
				panel.Children = append(panel.Children, El("div", A("class", "arbor-document"), Trusted(out)))
				break
			}
		}
		panel.Children = append(panel.Children, SourceView(s.SelectedPath, s.Content, opts.Highlighter))
	}
	return panel
}
