package hostapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type Repository struct {
	Owner string
	Name string
}

func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

func (r Repository) String() string { return r.FullName() }

var ErrInvalidRepositoryURL = errors.New("invalid repository url")

// accepted forms:
//
//   https://github.com/owner/name
//   https://github.com/owner/name.git
//   https://github.com/owner/name/tree/main/src   (anything after name is ignored)
//   github.com/owner/name
//   git@github.com:owner/name.git
//   owner/name
var (
	reHttpRepoURL = regexp.MustCompile(`^(?:https?://)?(?:www\.)?[A-Za-z0-9.-]+\.[A-Za-z]+/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?(?:[/?#].*)?$`)
	reSshRepoURL = regexp.MustCompile(`^[A-Za-z0-9_.-]+@[A-Za-z0-9.-]+:([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)
	reBareRepoName = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?$`)
)

func ParseRepositoryURL(s string) (Repository, error) {
	s = strings.TrimSpace(s)
	for _, re := range []*regexp.Regexp{ reSshRepoURL, reHttpRepoURL, reBareRepoName } {
		m := re.FindStringSubmatch(s)
		if m == nil { continue }
		if m[1] == "." || m[1] == ".." || m[2] == "." || m[2] == ".." { break }
		if len(m[2]) <= 0 { break }
		return Repository{ Owner: m[1], Name: m[2] }, nil
	}
	return Repository{}, errors.Wrapf(ErrInvalidRepositoryURL, "%q", s)
}
