package backend

import (
	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/widget"
	"github.com/bctnry/arbor/pkg/widget/postgres"
	"github.com/bctnry/arbor/pkg/widget/sqlite"
)

func InitializeWidgetStore(cfg *arbor.ArborConfig) (widget.ArborWidgetStore, error) {
	switch cfg.Database.Type {
	case "sqlite": return sqlite.NewSqliteWidgetStore(cfg)
	case "postgres": return postgres.NewPostgresWidgetStore(cfg)
	}
	return nil, widget.ErrUnsupportedStoreType
}
