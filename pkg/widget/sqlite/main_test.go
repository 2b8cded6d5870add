package sqlite

import (
	"context"
	"path"
	"testing"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ArborSqliteWidgetStore {
	t.Helper()
	cfg := arbor.DefaultConfig()
	cfg.Database.Path = path.Join(t.TempDir(), "arbor.db")
	require.NoError(t, cfg.RecalculateProperPath())
	ws, err := NewSqliteWidgetStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Dispose() })
	return ws
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	ws := newTestStore(t)
	ok, err := ws.IsStoreUsable(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, ws.Install(ctx))
	ok, err = ws.IsStoreUsable(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	// installing twice is harmless.
	require.NoError(t, ws.Install(ctx))
}

func TestInstanceLifecycle(t *testing.T) {
	ctx := context.Background()
	ws := newTestStore(t)
	require.NoError(t, ws.Install(ctx))

	a, err := widget.NewInstance("https://github.com/octo/demo", "dev", 2048, []string{ "dist/" })
	require.NoError(t, err)
	a.CreateTime = 100
	b, err := widget.NewInstance("octo/other", "", 0, nil)
	require.NoError(t, err)
	b.CreateTime = 200
	require.NoError(t, ws.CreateInstance(ctx, a))
	require.NoError(t, ws.CreateInstance(ctx, b))

	got, err := ws.GetInstance(ctx, a.Id)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	got, err = ws.GetInstance(ctx, b.Id)
	require.NoError(t, err)
	assert.Nil(t, got.ExcludePaths)

	all, err := ws.GetAllInstance(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.Id, all[0].Id)
	assert.Equal(t, a.Id, all[1].Id)

	page, err := ws.GetAllInstance(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, a.Id, page[0].Id)

	require.NoError(t, ws.DeleteInstance(ctx, a.Id))
	_, err = ws.GetInstance(ctx, a.Id)
	assert.ErrorIs(t, err, widget.ErrInstanceNotFound)
	assert.ErrorIs(t, ws.DeleteInstance(ctx, a.Id), widget.ErrInstanceNotFound)
}
