package embed

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/bctnry/arbor/pkg/browser"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/view"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// attributes read off a host page element.
const (
	ATTR_MARKER = "data-repo-browser"
	ATTR_REPO_URL = "data-repo-url"
	ATTR_BRANCH = "data-branch"
	ATTR_MAX_FILE_SIZE = "data-max-file-size"
	ATTR_EXCLUDE_PATHS = "data-exclude-paths"
)

// Marker is one element on the page asking for a browser.
type Marker struct {
	Node *html.Node
	RepositoryURL string
	Branch string
	// 0 when not given or not a number.
	MaxFileSize int64
	// nil when the attribute is absent; an empty attribute gives an
	// empty, non-nil list.
	ExcludePaths []string
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key { return a.Val, true }
	}
	return "", false
}

func SplitExcludePaths(s string) []string {
	res := make([]string, 0)
	for item := range strings.SplitSeq(s, ",") {
		k := strings.TrimSpace(item)
		if len(k) <= 0 { continue }
		res = append(res, k)
	}
	return res
}

func markerFromNode(n *html.Node) *Marker {
	res := &Marker{ Node: n }
	res.RepositoryURL, _ = getAttr(n, ATTR_REPO_URL)
	res.Branch, _ = getAttr(n, ATTR_BRANCH)
	if s, ok := getAttr(n, ATTR_MAX_FILE_SIZE); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err == nil && i > 0 {
			res.MaxFileSize = i
		} else {
			logging.Warn("ignoring bad max file size", zap.String("value", s))
		}
	}
	if s, ok := getAttr(n, ATTR_EXCLUDE_PATHS); ok {
		res.ExcludePaths = SplitExcludePaths(s)
	}
	return res
}

// Discover lists every marker element under `doc` in document order.
func Discover(doc *html.Node) []*Marker {
	res := make([]*Marker, 0)
	var rec func(n *html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := getAttr(n, ATTR_MARKER); ok {
				res = append(res, markerFromNode(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling { rec(c) }
	}
	rec(doc)
	return res
}

type Embedder struct {
	Source hostapi.Source
	View view.BrowserViewOptions
	// used for markers without data-exclude-paths.
	DefaultExcludePaths []string
	// where the browser is served. file and raw links of each marker
	// go to /browse and /raw under it, carrying the marker's settings.
	// "" makes them relative to the site root.
	BaseURL string
	// number of repositories loaded at the same time. <= 0 means
	// no limit.
	Concurrency int
}

// builds the browser for one marker. nil with a nil error means the
// marker is misconfigured and should be left alone.
func (e *Embedder) renderMarker(ctx context.Context, m *Marker) (view.Node, error) {
	exclude := m.ExcludePaths
	if exclude == nil { exclude = e.DefaultExcludePaths }
	c, err := browser.NewControllerFromURL(e.Source, m.RepositoryURL, m.Branch, m.MaxFileSize, exclude)
	if err != nil {
		logging.Warn("skipping repository browser with bad configuration",
			zap.String("repositoryURL", m.RepositoryURL),
			zap.Error(err))
		return nil, nil
	}
	err = c.Load(ctx)
	if err != nil {
		// a load failure is shown in place of the tree.
		if k, ok := browser.KindOf(err); !ok || k != browser.LOAD_FAILURE { return nil, err }
		logging.Info("repository failed to load", zap.String("repositoryURL", m.RepositoryURL), zap.Error(err))
	}
	opts := view.ServerLinks(e.View, e.BaseURL, view.LinkParams{
		RepositoryURL: m.RepositoryURL,
		Branch: m.Branch,
		MaxFileSize: m.MaxFileSize,
		ExcludePaths: m.ExcludePaths,
	})
	return view.BrowserView(c.Snapshot(), opts), nil
}

// Populate fills every marker under `doc` with a browser and returns
// the number of elements filled. markers are loaded concurrently but
// the document is only modified from the calling goroutine.
func (e *Embedder) Populate(ctx context.Context, doc *html.Node) (int, error) {
	markers := Discover(doc)
	rendered := make([]view.Node, len(markers))
	g, gctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 { g.SetLimit(e.Concurrency) }
	for i, m := range markers {
		g.Go(func() error {
			s, err := e.renderMarker(gctx, m)
			if err != nil { return err }
			rendered[i] = s
			return nil
		})
	}
	err := g.Wait()
	if err != nil { return 0, err }
	count := 0
	for i, m := range markers {
		if rendered[i] == nil { continue }
		for m.Node.FirstChild != nil { m.Node.RemoveChild(m.Node.FirstChild) }
		err := view.AppendTo(m.Node, rendered[i])
		if err != nil { return count, err }
		count += 1
	}
	return count, nil
}

// Process reads a whole page from `r`, populates it and writes the
// result to `w`.
func (e *Embedder) Process(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	doc, err := html.Parse(r)
	if err != nil { return 0, err }
	count, err := e.Populate(ctx, doc)
	if err != nil { return count, err }
	return count, html.Render(w, doc)
}
