// @title         Scheduling API
// @version       0.1.0
// @description   Appointment availability: bookable slots, calendars and slot checks

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "time/tzdata"

	"scheduling/internal/modkit/repokit"
	"scheduling/internal/platform/config"
	"scheduling/internal/platform/logger"
	phttp "scheduling/internal/platform/net/http"
	"scheduling/internal/platform/store"

	"scheduling/internal/services/api"
	"scheduling/internal/services/api/availability/repo"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres always, redis and clickhouse when configured
	st, err := store.Open(ctx, store.FromEnv(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if apiCfg.MayBool("MIGRATE", false) {
		if err := repo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("schema migration failed")
		}
		if st.CH != nil {
			if err := repo.MigrateDemand(ctx, st.CH); err != nil {
				l.Panic().Err(err).Msg("demand table migration failed")
			}
		}
		l.Info().Msg("schema up to date")
	}

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	a := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         *l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// background workers stop with ctx and flush what they hold
	var wg sync.WaitGroup
	for _, w := range a.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				l.Error().Err(err).Msg("worker stopped")
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	stop()
	wg.Wait()
}
