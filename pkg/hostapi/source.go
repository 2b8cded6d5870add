package hostapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/pkg/errors"
)

// the three calls we make against a hosted repository.
type Source interface {
	// branch name -> tree id of the branch head's root directory.
	ResolveBranch(ctx context.Context, repo Repository, branch string) (string, error)
	// recursive listing of a tree. only blobs are returned.
	ListTree(ctx context.Context, repo Repository, treeId string) ([]filetree.PathRecord, error)
	FetchContent(ctx context.Context, repo Repository, ref string, path string) (*Content, error)
}

const (
	ENCODING_NONE = ""
	ENCODING_BASE64 = "base64"
)

type Content struct {
	Path string `json:"path"`
	Size int64 `json:"size"`
	// "base64" or empty for raw text.
	Encoding string `json:"encoding"`
	Data string `json:"content"`
}

// Decode returns the content as text, decoding base64 when the remote
// sent it encoded. the remote wraps base64 output at 60 columns so
// whitespace is stripped before decoding.
func (c *Content) Decode() (string, error) {
	switch c.Encoding {
	case ENCODING_NONE:
		return c.Data, nil
	case ENCODING_BASE64:
		s := strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' || r == ' ' || r == '\t' { return -1 }
			return r
		}, c.Data)
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil { return "", errors.Wrapf(err, "decoding %s", c.Path) }
		return string(b), nil
	}
	return "", errors.Errorf("unsupported content encoding %q for %s", c.Encoding, c.Path)
}

// returned when the remote answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusOf digs the remote http status out of a (possibly wrapped)
// error. 0 when there is none.
func StatusOf(err error) int {
	if se, ok := errors.Cause(err).(*StatusError); ok {
		return se.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
