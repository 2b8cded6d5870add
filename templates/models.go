package templates

import (
	"html/template"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/widget"
)

type ErrorTemplateModel struct {
	Config *arbor.ArborConfig
	ErrorCode int
	ErrorMessage string
}

type IndexTemplateModel struct {
	Config *arbor.ArborConfig
	// prefilled form values.
	RepositoryURL string
	Branch string
}

type BrowseTemplateModel struct {
	Config *arbor.ArborConfig
	RepositoryURL string
	RepositoryFullName string
	Branch string
	// rendered by pkg/view, already escaped.
	Browser template.HTML
}

type WidgetTemplateModel struct {
	Config *arbor.ArborConfig
	Instance *widget.Instance
	Browser template.HTML
	// the markup to paste into a page to get the same browser there.
	EmbedSnippet string
}

type WidgetListTemplateModel struct {
	Config *arbor.ArborConfig
	InstanceList []*widget.Instance
	PageNum int
	PageSize int
	HasPrevPage bool
	HasNextPage bool
}
