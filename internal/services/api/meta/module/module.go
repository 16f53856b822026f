// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	modkit "scheduling/internal/modkit"
	"scheduling/internal/modkit/httpkit"
	str "scheduling/internal/platform/strings"

	metahttp "scheduling/internal/services/api/meta/http"
)

// ServiceName is reported by health, version and service
const ServiceName = "scheduling-api"

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	http      metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module; postgres is the only required readiness check
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	started := time.Now()
	return &Module{
		built:     b,
		startedAt: started,
		http: metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   started,
			Pings:       deps.Pings,
			Required:    []string{"pg"},
		},
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, m.http)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix returns the route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// Ports implements the modkit.Module interface; meta offers none
func (m *Module) Ports() any { return nil }

var _ modkit.Module = (*Module)(nil)
