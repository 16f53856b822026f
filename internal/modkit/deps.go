// Package modkit provides module wiring and the shared deps modules receive
package modkit

import (
	"scheduling/internal/modkit/repokit"
	"scheduling/internal/platform/config"
	"scheduling/internal/platform/logger"
	"scheduling/internal/platform/store"
)

// Deps holds the core dependencies passed to modules
// CH and RDS are nil when those backends are disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS store.Redis

	// Pings lists readiness checks by backend name
	Pings map[string]store.Pinger
}

// DepsFrom lifts an opened store into module deps
func DepsFrom(cfg config.Conf, log logger.Logger, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st == nil {
		return d
	}
	d.PG = st.PG
	d.CH = st.CH
	d.RDS = st.RDS
	d.Pings = st.Pings()
	return d
}
