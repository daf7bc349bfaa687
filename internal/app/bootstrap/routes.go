// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/exhibithub/internal/app/features/errors"
	exhibitionsfeature "github.com/dalemusser/exhibithub/internal/app/features/exhibitions"
	healthfeature "github.com/dalemusser/exhibithub/internal/app/features/health"
	museumsfeature "github.com/dalemusser/exhibithub/internal/app/features/museums"
	"github.com/dalemusser/exhibithub/internal/app/store/audit"
	metricsstore "github.com/dalemusser/exhibithub/internal/app/store/metrics"
	"github.com/dalemusser/exhibithub/internal/app/system/auditlog"
	"github.com/dalemusser/exhibithub/internal/app/system/flash"
	"github.com/dalemusser/exhibithub/internal/app/system/listcache"
	"github.com/dalemusser/exhibithub/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine, builds the
// services shared by the features (flash cookie, audit logger, metrics,
// listing cache) and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	flashStore, err := flash.New(appCfg.SessionKey, appCfg.SessionName, secure, logger)
	if err != nil {
		logger.Error("flash store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Admin:  appCfg.AuditLogAdmin,
		Ingest: auditlog.DestAll,
	})
	met := metrics.New(func(ctx context.Context) metricsstore.Counts {
		return metricsstore.FetchCatalogCounts(ctx, db)
	})
	cache := listcache.New(deps.Redis, listcache.DefaultPrefix, appCfg.ListCacheTTL, logger)

	r := chi.NewRouter()

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", met.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/exhibitions", http.StatusSeeOther)
	})

	exhibitionsHandler := exhibitionsfeature.NewHandler(db, flashStore, auditLog, met, cache, errLog, logger)
	r.Mount("/exhibitions", exhibitionsfeature.Routes(exhibitionsHandler))

	museumsHandler := museumsfeature.NewHandler(db, flashStore, auditLog, met, errLog, logger)
	r.Mount("/museums", museumsfeature.Routes(museumsHandler))

	return r, nil
}
