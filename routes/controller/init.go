package controller

import (
	"net/http"

	"github.com/bctnry/arbor/routes"
)

func InitializeRoute(context *routes.RouterContext, mux *http.ServeMux) {
	bindIndexController(context, mux)
	bindBrowseController(context, mux)
	bindRawController(context, mux)
	bindEmbedController(context, mux)
	bindStaticController(context, mux)
	bindMetricsController(context, mux)
	if context.WidgetStore != nil {
		bindWidgetController(context, mux)
	}
}
