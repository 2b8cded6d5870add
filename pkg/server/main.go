package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/cache"
	cachebackend "github.com/bctnry/arbor/pkg/cache/backend"
	"github.com/bctnry/arbor/pkg/filetree"
	"github.com/bctnry/arbor/pkg/highlight"
	"github.com/bctnry/arbor/pkg/hostapi"
	"github.com/bctnry/arbor/pkg/logging"
	widgetbackend "github.com/bctnry/arbor/pkg/widget/backend"
	"github.com/bctnry/arbor/routes"
	"github.com/bctnry/arbor/routes/controller"
	"github.com/bctnry/arbor/templates"
	"go.uber.org/zap"
)

func InitLogging(cfg *arbor.ArborConfig) error {
	return logging.Init(logging.Config{
		Level: cfg.Log.Level,
		Format: cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
	})
}

// NewSource gives the remote api behind the configured cache.
func NewSource(cfg *arbor.ArborConfig) (hostapi.Source, cache.ArborCache, error) {
	c, err := cachebackend.InitializeCache(cfg)
	if err != nil { return nil, nil, err }
	gh := hostapi.NewGitHubSource(cfg.API.BaseURL, cfg.API.UserAgent, cfg.APITimeout())
	cs := cache.NewCachingSource(gh, c, cfg.CacheTimeout())
	cs.CallTimeout = cfg.APITimeout()
	return cs, c, nil
}

// NewRouterContext wires everything the routes need. the widget store
// is installed if it isn't yet.
func NewRouterContext(ctx context.Context, cfg *arbor.ArborConfig) (*routes.RouterContext, error) {
	src, c, err := NewSource(cfg)
	if err != nil { return nil, err }
	store, err := widgetbackend.InitializeWidgetStore(cfg)
	if err != nil { return nil, err }
	usable, err := store.IsStoreUsable(ctx)
	if err != nil { return nil, err }
	if !usable {
		logging.Info("installing widget store", zap.String("type", cfg.Database.Type))
		err = store.Install(ctx)
		if err != nil { return nil, err }
	}
	return &routes.RouterContext{
		Config: cfg,
		MasterTemplate: templates.LoadTemplate(),
		Source: src,
		Cache: c,
		WidgetStore: store,
		Highlighter: highlight.NewChromaHighlighter(cfg.HighlightStyle),
		Sorter: filetree.NewSorter(cfg.Locale),
		RateLimiter: routes.NewRateLimiter(cfg.MaxRequestInSecond),
	}, nil
}

// Run serves until `ctx` is done, then shuts down gracefully.
func Run(ctx context.Context, cfg *arbor.ArborConfig) error {
	rc, err := NewRouterContext(ctx, cfg)
	if err != nil { return err }
	defer func() { routes.LogIfError("closing widget store", rc.WidgetStore.Dispose()) }()
	mux := http.NewServeMux()
	controller.InitializeRoute(rc, mux)
	server := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.BindPort),
		Handler: mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if rc.RateLimiter != nil {
		go rc.RateLimiter.PruneEvery(ctx, time.Minute, 10 * time.Minute)
	}
	errChan := make(chan error, 1)
	go func() {
		logging.Info("serving", zap.String("address", server.Addr))
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			errChan <- err
			return
		}
		logging.Info("stopped serving new connections")
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15 * time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if err != nil { return err }
	logging.Info("graceful shutdown complete")
	return <-errChan
}
