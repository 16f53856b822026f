// Package module wires availability into the API using modkit
package module

import (
	"net/http"

	modkit "scheduling/internal/modkit"
	"scheduling/internal/modkit/httpkit"
	str "scheduling/internal/platform/strings"

	avhttp "scheduling/internal/services/api/availability/http"
	avrepo "scheduling/internal/services/api/availability/repo"
	avsvc "scheduling/internal/services/api/availability/service"
)

// Module implements modkit.Module for availability
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	ports Ports

	svc *avsvc.Svc
}

// New constructs the availability module
// redis turns on the read-through cache and clickhouse the demand log
func New(deps modkit.Deps, opt Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("availability"),
		modkit.WithPrefix("/availability"),
		modkit.WithMiddlewares(httpkit.RateLimit(opt.RateLimit)),
	}, opts...)...)

	log := deps.Log.With().Str("component", "availability").Logger()

	binder := avrepo.NewPG()
	if deps.RDS != nil {
		binder = avrepo.NewCached(binder, deps.RDS, opt.CacheTTL, log)
	}

	var demand avrepo.DemandSink = avrepo.NopDemand{}
	if deps.CH != nil {
		demand = avrepo.NewDemand(deps.CH, avrepo.DemandOptions{
			Buffer: opt.DemandBuffer,
			Batch:  opt.DemandBatch,
			Flush:  opt.DemandFlush,
		}, log)
	}

	svc := avsvc.New(deps.PG, binder, demand, avsvc.Options{
		Location:    opt.Location,
		Step:        opt.Step,
		MinNotice:   opt.MinNotice,
		HorizonDays: opt.HorizonDays,
		LockKey:     opt.LockKey,

		GuardTimeout: opt.GuardTimeout,
	})

	log.Info().
		Str("time_zone", opt.Location.String()).
		Dur("step", opt.Step).
		Dur("min_notice", opt.MinNotice).
		Int("horizon_days", opt.HorizonDays).
		Bool("cache", deps.RDS != nil).
		Bool("demand_log", deps.CH != nil).
		Msg("availability module ready")

	return &Module{
		deps:  deps,
		built: b,
		svc:   svc,
		ports: Ports{Slots: svc, Guard: svc, Demand: demand},
	}
}

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		avhttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// Service exposes the concrete service, used by the CLI
func (m *Module) Service() *avsvc.Svc { return m.svc }

var _ modkit.Module = (*Module)(nil)
