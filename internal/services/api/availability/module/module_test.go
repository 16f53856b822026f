package module

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	modkit "scheduling/internal/modkit"
	"scheduling/internal/modkit/module"
	"scheduling/internal/platform/config"
	perr "scheduling/internal/platform/errors"
	phttp "scheduling/internal/platform/net/http"
	"scheduling/internal/platform/store"
	"scheduling/internal/platform/testkit"
	"scheduling/internal/services/api/availability/domain"
	avrepo "scheduling/internal/services/api/availability/repo"
)

type emptyRows struct{}

func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return nil }
func (emptyRows) Err() error        { return nil }
func (emptyRows) Close()            {}
func (emptyRows) Columns() []string { return nil }

// emptyPG answers every query with no rows
type emptyPG struct{ queries int }

func (p *emptyPG) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return pgconn.NewCommandTag("SELECT 0"), nil
}

func (p *emptyPG) Query(context.Context, string, ...any) (store.Rows, error) {
	p.queries++
	return emptyRows{}, nil
}

func (p *emptyPG) QueryRow(context.Context, string, ...any) store.Row { return nil }

func (p *emptyPG) Tx(_ context.Context, fn func(store.RowQuerier) error) error { return fn(p) }

func deps(pg store.TxRunner) modkit.Deps {
	return modkit.Deps{Log: zerolog.Nop(), Cfg: config.New(), PG: pg}
}

func TestFromConfig_Defaults(t *testing.T) {
	testkit.Setenv(t, map[string]string{"CORE_AVAILABILITY_TIMEZONE": ""})

	o := FromConfig(config.New())
	if o.Location != time.UTC || o.Step != 30*time.Minute || o.MinNotice != 2*time.Hour {
		t.Fatalf("defaults %+v", o)
	}
	if o.HorizonDays != 30 || o.CacheTTL != 5*time.Minute || o.RateLimit != 20 || o.LockKey != defaultLockKey {
		t.Fatalf("defaults %+v", o)
	}
	if o.GuardTimeout != 5*time.Second {
		t.Fatalf("guard timeout %s", o.GuardTimeout)
	}
	if o.DemandBuffer != 4096 || o.DemandBatch != 500 || o.DemandFlush != 5*time.Second {
		t.Fatalf("demand defaults %+v", o)
	}
}

func TestFromConfig_Env(t *testing.T) {
	testkit.Setenv(t, map[string]string{
		"CORE_AVAILABILITY_TIMEZONE":      "Europe/Berlin",
		"CORE_AVAILABILITY_STEP_MINUTES":  "15",
		"CORE_AVAILABILITY_MIN_NOTICE":    "0s",
		"CORE_AVAILABILITY_HORIZON_DAYS":  "-3",
		"CORE_AVAILABILITY_RATE_LIMIT":    "0",
		"CORE_AVAILABILITY_LOCK_KEY":      "99",
		"CORE_AVAILABILITY_DEMAND_FLUSH":  "250ms",
		"CORE_AVAILABILITY_GUARD_TIMEOUT": "0s",
	})

	o := FromConfig(config.New())
	if o.Location.String() != "Europe/Berlin" || o.Step != 15*time.Minute || o.MinNotice != 0 {
		t.Fatalf("options %+v", o)
	}
	if o.HorizonDays != 30 {
		t.Fatalf("negative horizon should fall back, got %d", o.HorizonDays)
	}
	if o.RateLimit != 0 || o.LockKey != 99 || o.DemandFlush != 250*time.Millisecond || o.GuardTimeout != 0 {
		t.Fatalf("options %+v", o)
	}
}

func TestFromConfig_BadZonePanics(t *testing.T) {
	testkit.Setenv(t, map[string]string{"CORE_AVAILABILITY_TIMEZONE": "Mars/Olympus"})
	testkit.MustPanic(t, func() { _ = FromConfig(config.New()) })
}

func TestNew_DefaultsAndPorts(t *testing.T) {
	t.Parallel()

	m := New(deps(&emptyPG{}), Options{Location: time.UTC, Step: 30 * time.Minute, HorizonDays: 7})
	if m.Name() != "availability" || m.Prefix() != "/availability" || len(m.Middlewares()) != 1 {
		t.Fatalf("name=%q prefix=%q mw=%d", m.Name(), m.Prefix(), len(m.Middlewares()))
	}

	guard, ok := module.PortsOf[domain.SlotGuard](m)
	if !ok || guard == nil {
		t.Fatalf("SlotGuard port missing")
	}
	p := m.Ports().(Ports)
	if _, nop := p.Demand.(avrepo.NopDemand); !nop {
		t.Fatalf("without clickhouse the demand worker should be a no-op, got %T", p.Demand)
	}
	if m.Service() == nil {
		t.Fatalf("Service() nil")
	}
}

func TestNew_OverridesAndBackends(t *testing.T) {
	t.Parallel()

	d := deps(&emptyPG{})
	d.CH = nopCH{}
	m := New(d, Options{Location: time.UTC, Step: 30 * time.Minute}, modkit.WithPrefix("/slots-v2"))
	if m.Prefix() != "/slots-v2" {
		t.Fatalf("prefix %q", m.Prefix())
	}
	if _, ok := m.Ports().(Ports).Demand.(*avrepo.Demand); !ok {
		t.Fatalf("clickhouse should enable the demand log")
	}
}

func TestMountRoutes(t *testing.T) {
	t.Parallel()

	pg := &emptyPG{}
	m := New(deps(pg), Options{Location: time.UTC, Step: 30 * time.Minute, HorizonDays: 7})
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	req := httptest.NewRequest(http.MethodPost, "/availability/slots", strings.NewReader(`{"meeting_type":"intro-call","date":"2025-06-02"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown meeting type should 404, got %d %s", rec.Code, rec.Body.String())
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Code != perr.ErrorCodeNotFound || env.Field != "meeting_type" {
		t.Fatalf("envelope %+v err %v", env, err)
	}
	if pg.queries == 0 {
		t.Fatalf("route did not reach the repo")
	}
}

type nopCH struct{}

func (nopCH) Insert(context.Context, string, []string, [][]any) error   { return nil }
func (nopCH) Exec(context.Context, string, ...any) error                { return nil }
func (nopCH) Query(context.Context, string, ...any) (store.Rows, error) { return emptyRows{}, nil }
func (nopCH) Ping(context.Context) error                                { return nil }
func (nopCH) Close() error                                              { return nil }
