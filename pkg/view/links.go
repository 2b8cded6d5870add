package view

import (
	"net/url"
	"strconv"
	"strings"
)

// query keys read by /browse and /raw.
const (
	QUERY_REPO = "repo"
	QUERY_BRANCH = "branch"
	QUERY_PATH = "path"
	QUERY_MAX_FILE_SIZE = "max-file-size"
	QUERY_EXCLUDE_PATHS = "exclude-paths"
)

// LinkParams is a browser configuration carried in links, so that the
// page a link leads to rebuilds the same browser.
type LinkParams struct {
	RepositoryURL string
	Branch string
	// left out when <= 0.
	MaxFileSize int64
	// left out when nil so the default list applies; an empty list is
	// kept and means no exclusions.
	ExcludePaths []string
}

func (lp LinkParams) Query(p string) url.Values {
	q := url.Values{}
	q.Set(QUERY_REPO, lp.RepositoryURL)
	if lp.Branch != "" { q.Set(QUERY_BRANCH, lp.Branch) }
	if lp.MaxFileSize > 0 { q.Set(QUERY_MAX_FILE_SIZE, strconv.FormatInt(lp.MaxFileSize, 10)) }
	if lp.ExcludePaths != nil { q.Set(QUERY_EXCLUDE_PATHS, strings.Join(lp.ExcludePaths, ",")) }
	if p != "" { q.Set(QUERY_PATH, p) }
	return q
}

// ServerLinks points file links at the /browse page and raw links at
// /raw under `baseURL` ("" for links relative to the site root).
func ServerLinks(opts BrowserViewOptions, baseURL string, lp LinkParams) BrowserViewOptions {
	baseURL = strings.TrimSuffix(baseURL, "/")
	opts.FileHref = func(p string) string {
		return baseURL + "/browse?" + lp.Query(p).Encode()
	}
	opts.RawHref = func(p string) string {
		return baseURL + "/raw?" + lp.Query(p).Encode()
	}
	return opts
}
