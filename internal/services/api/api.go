// Package api composes the HTTP API from its modules
package api

import (
	"scheduling/internal/platform/config"
	"scheduling/internal/platform/logger"
	phttp "scheduling/internal/platform/net/http"
	"scheduling/internal/platform/store"

	"scheduling/internal/modkit"
	"scheduling/internal/modkit/httpkit"
	"scheduling/internal/modkit/module"
	"scheduling/internal/modkit/swaggerkit"

	availdom "scheduling/internal/services/api/availability/domain"
	availmod "scheduling/internal/services/api/availability/module"
	metamod "scheduling/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// API is the mounted composition; its workers must be run by the caller
type API struct {
	Registry *module.Registry
	Workers  []availdom.Worker
}

// Mount builds every module and mounts it under /api/v1
func Mount(r phttp.Router, opt Options) *API {
	deps := modkit.DepsFrom(opt.Config, opt.Logger, opt.Store)

	avail := availmod.New(deps, availmod.FromConfig(opt.Config))
	mods := []modkit.Module{
		metamod.New(deps),
		avail,
	}

	reg := module.NewRegistry()
	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackFromConfig(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			reg.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return &API{
		Registry: reg,
		Workers:  []availdom.Worker{module.MustPortsOf[availmod.Ports](avail).Demand},
	}
}
