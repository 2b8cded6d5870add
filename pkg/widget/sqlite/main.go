package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/widget"
	_ "github.com/mattn/go-sqlite3"
)

type ArborSqliteWidgetStore struct {
	config *arbor.ArborConfig
	connection *sql.DB
}

var requiredTableList = []string{
	"widget",
}

func NewSqliteWidgetStore(cfg *arbor.ArborConfig) (*ArborSqliteWidgetStore, error) {
	p := cfg.ProperDatabasePath()
	r, err := url.Parse(p)
	if err != nil { return nil, err }
	q := r.Query()
	q.Set("cache", "shared")
	q.Set("mode", "rwc")
	q.Set("_journal_mode", "WAL")
	r.RawQuery = q.Encode()
	db, err := sql.Open("sqlite3", r.String())
	if err != nil { return nil, err }
	return &ArborSqliteWidgetStore{
		config: cfg,
		connection: db,
	}, nil
}

func (ws *ArborSqliteWidgetStore) Dispose() error {
	return ws.connection.Close()
}

func (ws *ArborSqliteWidgetStore) IsStoreUsable(ctx context.Context) (bool, error) {
	pfx := ws.config.Database.TablePrefix
	stmt, err := ws.connection.PrepareContext(ctx, "SELECT 1 FROM sqlite_schema WHERE type = 'table' AND name = ?")
	if err != nil { return false, err }
	defer stmt.Close()
	for _, item := range requiredTableList {
		r := stmt.QueryRowContext(ctx, fmt.Sprintf("%s_%s", pfx, item))
		var a string
		err := r.Scan(&a)
		if err == sql.ErrNoRows { return false, nil }
		if err != nil { return false, err }
		if len(a) <= 0 { return false, nil }
	}
	return true, nil
}

func (ws *ArborSqliteWidgetStore) Install(ctx context.Context) error {
	pfx := ws.config.Database.TablePrefix
	tx, err := ws.connection.BeginTx(ctx, nil)
	if err != nil { return err }
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s_widget (
    id TEXT UNIQUE,
    repository_url TEXT,
    branch TEXT,
    max_file_size INT,
    exclude_paths TEXT,
    create_time INT
)`, pfx))
	if err != nil { return err }
	return tx.Commit()
}

func (ws *ArborSqliteWidgetStore) CreateInstance(ctx context.Context, inst *widget.Instance) error {
	pfx := ws.config.Database.TablePrefix
	tx, err := ws.connection.BeginTx(ctx, nil)
	if err != nil { return err }
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s_widget(id, repository_url, branch, max_file_size, exclude_paths, create_time)
VALUES (?,?,?,?,?,?)
`, pfx), inst.Id, inst.RepositoryURL, inst.Branch, inst.MaxFileSize, widget.SerializeExcludePaths(inst.ExcludePaths), inst.CreateTime)
	if err != nil { return err }
	return tx.Commit()
}

func (ws *ArborSqliteWidgetStore) GetInstance(ctx context.Context, id string) (*widget.Instance, error) {
	pfx := ws.config.Database.TablePrefix
	r := ws.connection.QueryRowContext(ctx, fmt.Sprintf(`
SELECT repository_url, branch, max_file_size, exclude_paths, create_time
FROM %s_widget
WHERE id = ?
`, pfx), id)
	res := &widget.Instance{ Id: id }
	var exclude string
	err := r.Scan(&res.RepositoryURL, &res.Branch, &res.MaxFileSize, &exclude, &res.CreateTime)
	if errors.Is(err, sql.ErrNoRows) { return nil, widget.ErrInstanceNotFound }
	if err != nil { return nil, err }
	res.ExcludePaths = widget.ParseExcludePaths(exclude)
	return res, nil
}

func (ws *ArborSqliteWidgetStore) GetAllInstance(ctx context.Context, pageNum int, pageSize int) ([]*widget.Instance, error) {
	pfx := ws.config.Database.TablePrefix
	r, err := ws.connection.QueryContext(ctx, fmt.Sprintf(`
SELECT id, repository_url, branch, max_file_size, exclude_paths, create_time
FROM %s_widget
ORDER BY create_time DESC, rowid DESC
LIMIT ? OFFSET ?`, pfx), pageSize, pageNum * pageSize)
	if err != nil { return nil, err }
	defer r.Close()
	res := make([]*widget.Instance, 0)
	for r.Next() {
		inst := &widget.Instance{}
		var exclude string
		err = r.Scan(&inst.Id, &inst.RepositoryURL, &inst.Branch, &inst.MaxFileSize, &exclude, &inst.CreateTime)
		if err != nil { return nil, err }
		inst.ExcludePaths = widget.ParseExcludePaths(exclude)
		res = append(res, inst)
	}
	return res, r.Err()
}

func (ws *ArborSqliteWidgetStore) DeleteInstance(ctx context.Context, id string) error {
	pfx := ws.config.Database.TablePrefix
	tx, err := ws.connection.BeginTx(ctx, nil)
	if err != nil { return err }
	defer tx.Rollback()
	rs, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s_widget WHERE id = ?`, pfx), id)
	if err != nil { return err }
	n, err := rs.RowsAffected()
	if err != nil { return err }
	if n <= 0 { return widget.ErrInstanceNotFound }
	return tx.Commit()
}
