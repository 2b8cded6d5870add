package widget

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/google/uuid"
)

// Instance is a saved browser configuration that can be served (and
// embedded) by id.
type Instance struct {
	Id string
	RepositoryURL string
	Branch string
	MaxFileSize int64
	// nil means the server's default exclusion list.
	ExcludePaths []string
	CreateTime int64 // timestamp
}

type ArborWidgetStore interface {
	IsStoreUsable(ctx context.Context) (bool, error)
	Install(ctx context.Context) error
	CreateInstance(ctx context.Context, inst *Instance) error
	GetInstance(ctx context.Context, id string) (*Instance, error)
	// newest first.
	GetAllInstance(ctx context.Context, pageNum int, pageSize int) ([]*Instance, error)
	DeleteInstance(ctx context.Context, id string) error
	Dispose() error
}

var ErrUnsupportedStoreType = errors.New("Unsupported widget store type")
var ErrInstanceNotFound = errors.New("Widget instance not found")

// NewInstance checks the repository url and gives the instance a
// fresh id.
func NewInstance(repoURL string, branch string, maxFileSize int64, exclude []string) (*Instance, error) {
	_, err := hostapi.ParseRepositoryURL(repoURL)
	if err != nil { return nil, err }
	if maxFileSize < 0 { maxFileSize = 0 }
	return &Instance{
		Id: uuid.New().String(),
		RepositoryURL: repoURL,
		Branch: branch,
		MaxFileSize: maxFileSize,
		ExcludePaths: exclude,
		CreateTime: time.Now().Unix(),
	}, nil
}

func IsValidInstanceId(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// exclude lists are kept as a json array so that "not given" (null)
// and "nothing excluded" ([]) stay apart.
func SerializeExcludePaths(s []string) string {
	r, _ := json.Marshal(s)
	return string(r)
}

func ParseExcludePaths(s string) []string {
	var res []string
	if json.Unmarshal([]byte(s), &res) != nil { return nil }
	return res
}
