// @title         Storefront API
// @version       0.1.0
// @description   Access control, CSRF tokens and subscription endpoints for the storefront
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/platform/config"
	"storefront/internal/platform/logger"
	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/store"
	"storefront/internal/services/audit"

	"storefront/internal/services/api"
)

func main() {
	// .env is optional; real env wins
	_ = config.LoadDotenv()

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// open the platform store (postgres, plus clickhouse and redis when enabled)
	st, err := store.Open(ctx, store.FromConfig(root, "storefront", "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// optional backends degrade readiness; report them once at boot
	if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("store guard reported unhealthy backends")
	}

	// denial audit goes to clickhouse when it is configured
	var rec audit.Recorder = audit.Nop{}
	if st.CH != nil {
		rec = audit.NewSink(st.CH, audit.SinkOptions{})
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rec.Close(cctx); err != nil {
			l.Error().Err(err).Msg("failed to drain audit sink")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	if err := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Audit:          rec,
			EnableSwagger:  apiCfg.MayBool("ENABLE_SWAGGER", false),
			EnableProfiler: apiCfg.MayBool("ENABLE_PROFILER", false),
		},
	); err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	// run until signalled
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
