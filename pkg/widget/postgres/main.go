package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/widget"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArborPostgresWidgetStore struct {
	config *arbor.ArborConfig
	pool *pgxpool.Pool
}

var requiredTableList = []string{
	"widget",
}

func NewPostgresWidgetStore(cfg *arbor.ArborConfig) (*ArborPostgresWidgetStore, error) {
	u := &url.URL{
		Scheme: "postgres",
		User: url.UserPassword(cfg.Database.UserName, cfg.Database.Password),
		Host: cfg.Database.URL,
		Path: cfg.Database.DatabaseName,
	}
	pool, err := pgxpool.New(context.TODO(), u.String())
	if err != nil { return nil, err }
	return &ArborPostgresWidgetStore{
		config: cfg,
		pool: pool,
	}, nil
}

func (ws *ArborPostgresWidgetStore) Dispose() error {
	ws.pool.Close()
	return nil
}

func (ws *ArborPostgresWidgetStore) IsStoreUsable(ctx context.Context) (bool, error) {
	queryStr := `
SELECT EXISTS (SELECT FROM pg_tables WHERE schemaname = 'public' AND tablename = $1)
`
	for _, item := range requiredTableList {
		tableName := fmt.Sprintf("%s_%s", ws.config.Database.TablePrefix, item)
		var a bool
		err := ws.pool.QueryRow(ctx, queryStr, tableName).Scan(&a)
		if errors.Is(err, pgx.ErrNoRows) { return false, nil }
		if err != nil { return false, err }
		if !a { return false, nil }
	}
	return true, nil
}

func (ws *ArborPostgresWidgetStore) Install(ctx context.Context) error {
	pfx := ws.config.Database.TablePrefix
	tx, err := ws.pool.Begin(ctx)
	if err != nil { return err }
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s_widget (
    id VARCHAR(64) UNIQUE,
    repository_url TEXT,
    branch VARCHAR(256),
    max_file_size BIGINT,
    exclude_paths TEXT,
    create_time BIGINT
)`, pfx))
	if err != nil { return err }
	return tx.Commit(ctx)
}

func (ws *ArborPostgresWidgetStore) CreateInstance(ctx context.Context, inst *widget.Instance) error {
	pfx := ws.config.Database.TablePrefix
	_, err := ws.pool.Exec(ctx, fmt.Sprintf(`
INSERT INTO %s_widget(id, repository_url, branch, max_file_size, exclude_paths, create_time)
VALUES ($1, $2, $3, $4, $5, $6)
`, pfx), inst.Id, inst.RepositoryURL, inst.Branch, inst.MaxFileSize, widget.SerializeExcludePaths(inst.ExcludePaths), inst.CreateTime)
	return err
}

func (ws *ArborPostgresWidgetStore) GetInstance(ctx context.Context, id string) (*widget.Instance, error) {
	pfx := ws.config.Database.TablePrefix
	res := &widget.Instance{ Id: id }
	var exclude string
	err := ws.pool.QueryRow(ctx, fmt.Sprintf(`
SELECT repository_url, branch, max_file_size, exclude_paths, create_time
FROM %s_widget
WHERE id = $1
`, pfx), id).Scan(&res.RepositoryURL, &res.Branch, &res.MaxFileSize, &exclude, &res.CreateTime)
	if errors.Is(err, pgx.ErrNoRows) { return nil, widget.ErrInstanceNotFound }
	if err != nil { return nil, err }
	res.ExcludePaths = widget.ParseExcludePaths(exclude)
	return res, nil
}

func (ws *ArborPostgresWidgetStore) GetAllInstance(ctx context.Context, pageNum int, pageSize int) ([]*widget.Instance, error) {
	pfx := ws.config.Database.TablePrefix
	rs, err := ws.pool.Query(ctx, fmt.Sprintf(`
SELECT id, repository_url, branch, max_file_size, exclude_paths, create_time
FROM %s_widget
ORDER BY create_time DESC, id ASC
LIMIT $1 OFFSET $2`, pfx), pageSize, pageNum * pageSize)
	if err != nil { return nil, err }
	defer rs.Close()
	res := make([]*widget.Instance, 0)
	for rs.Next() {
		inst := &widget.Instance{}
		var exclude string
		err = rs.Scan(&inst.Id, &inst.RepositoryURL, &inst.Branch, &inst.MaxFileSize, &exclude, &inst.CreateTime)
		if err != nil { return nil, err }
		inst.ExcludePaths = widget.ParseExcludePaths(exclude)
		res = append(res, inst)
	}
	return res, rs.Err()
}

func (ws *ArborPostgresWidgetStore) DeleteInstance(ctx context.Context, id string) error {
	pfx := ws.config.Database.TablePrefix
	tag, err := ws.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s_widget WHERE id = $1`, pfx), id)
	if err != nil { return err }
	if tag.RowsAffected() <= 0 { return widget.ErrInstanceNotFound }
	return nil
}
