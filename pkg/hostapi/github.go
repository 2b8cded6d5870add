package hostapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/pkg/errors"
)

const (
	DEFAULT_API_BASE_URL = "https://api.github.com"
	DEFAULT_HTML_BASE_URL = "https://github.com"
	DEFAULT_USER_AGENT = "arbor"
)

// a github-compatible rest api. gitea and forgejo expose the same
// shapes for the three endpoints used here.
type GitHubSource struct {
	BaseURL string
	UserAgent string
	Client *http.Client
}

func NewGitHubSource(baseURL string, userAgent string, timeout time.Duration) *GitHubSource {
	if strings.TrimSpace(baseURL) == "" { baseURL = DEFAULT_API_BASE_URL }
	if strings.TrimSpace(userAgent) == "" { userAgent = DEFAULT_USER_AGENT }
	return &GitHubSource{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		UserAgent: userAgent,
		Client: &http.Client{ Timeout: timeout },
	}
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func (gs *GitHubSource) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil { return errors.Wrap(err, "building request") }
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", gs.UserAgent)
	resp, err := gs.Client.Do(req)
	if err != nil { return errors.Wrapf(err, "GET %s", u) }
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return &StatusError{ StatusCode: resp.StatusCode, URL: u }
	}
	err = json.NewDecoder(resp.Body).Decode(v)
	if err != nil { return errors.Wrapf(err, "decoding response of %s", u) }
	return nil
}

type githubBranch struct {
	Name string `json:"name"`
	Commit struct {
		Sha string `json:"sha"`
		Commit struct {
			Tree struct {
				Sha string `json:"sha"`
			} `json:"tree"`
		} `json:"commit"`
	} `json:"commit"`
}

func (gs *GitHubSource) ResolveBranch(ctx context.Context, repo Repository, branch string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/branches/%s", gs.BaseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), escapePath(branch))
	var b githubBranch
	err := gs.getJSON(ctx, u, &b)
	if err != nil { return "", errors.Wrapf(err, "resolving branch %s of %s", branch, repo) }
	treeId := b.Commit.Commit.Tree.Sha
	if treeId == "" {
		return "", errors.Errorf("branch %s of %s has no tree", branch, repo)
	}
	return treeId, nil
}

type githubTreeItem struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	Sha string `json:"sha"`
	Size int64 `json:"size"`
}

type githubTree struct {
	Sha string `json:"sha"`
	Tree []githubTreeItem `json:"tree"`
	Truncated bool `json:"truncated"`
}

func (gs *GitHubSource) ListTree(ctx context.Context, repo Repository, treeId string) ([]filetree.PathRecord, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", gs.BaseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(treeId))
	var t githubTree
	err := gs.getJSON(ctx, u, &t)
	if err != nil { return nil, errors.Wrapf(err, "listing tree %s of %s", treeId, repo) }
	// NOTE: a truncated listing is used as-is; paging through
	// subtrees is out of scope.
	res := make([]filetree.PathRecord, 0, len(t.Tree))
	for _, item := range t.Tree {
		if item.Type != "blob" { continue }
		res = append(res, filetree.PathRecord{
			Path: item.Path,
			ContentId: item.Sha,
			SizeBytes: item.Size,
		})
	}
	return res, nil
}

type githubContent struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64 `json:"size"`
	Encoding string `json:"encoding"`
	Content string `json:"content"`
}

func (gs *GitHubSource) FetchContent(ctx context.Context, repo Repository, ref string, p string) (*Content, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", gs.BaseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), escapePath(p))
	if ref != "" { u = u + "?ref=" + url.QueryEscape(ref) }
	var c githubContent
	err := gs.getJSON(ctx, u, &c)
	if err != nil { return nil, errors.Wrapf(err, "fetching %s of %s", p, repo) }
	if c.Type != "" && c.Type != "file" {
		return nil, errors.Errorf("%s of %s is a %s, not a file", p, repo, c.Type)
	}
	enc := c.Encoding
	if enc != ENCODING_BASE64 { enc = ENCODING_NONE }
	return &Content{
		Path: c.Path,
		Size: c.Size,
		Encoding: enc,
		Data: c.Content,
	}, nil
}

// HTMLURL links to a file on the hosting site itself.
func HTMLURL(htmlBaseURL string, repo Repository, branch string, p string) string {
	if strings.TrimSpace(htmlBaseURL) == "" { htmlBaseURL = DEFAULT_HTML_BASE_URL }
	return fmt.Sprintf(
		"%s/%s/%s/blob/%s/%s",
		strings.TrimSuffix(htmlBaseURL, "/"),
		url.PathEscape(repo.Owner), url.PathEscape(repo.Name),
		escapePath(branch), escapePath(p),
	)
}
