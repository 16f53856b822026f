package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"scheduling/internal/platform/config"
	phttp "scheduling/internal/platform/net/http"
	"scheduling/internal/platform/store"
	"scheduling/internal/services/api/availability/repo"
)

type noRows struct{}

func (noRows) Next() bool        { return false }
func (noRows) Scan(...any) error { return nil }
func (noRows) Err() error        { return nil }
func (noRows) Close()            {}
func (noRows) Columns() []string { return nil }

// emptyDB is a reachable postgres with no data
type emptyDB struct{}

func (emptyDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return pgconn.NewCommandTag("SELECT 0"), nil
}
func (emptyDB) Query(context.Context, string, ...any) (store.Rows, error) { return noRows{}, nil }
func (emptyDB) QueryRow(context.Context, string, ...any) store.Row        { return nil }
func (db emptyDB) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	return fn(db)
}
func (emptyDB) Ping(context.Context) error { return nil }

func mount(t *testing.T, swagger bool) (*chi.Mux, *API) {
	t.Helper()
	mux := chi.NewRouter()
	a := Mount(phttp.AdaptChi(mux), Options{
		Config:        config.New(),
		Store:         &store.Store{PG: emptyDB{}},
		Logger:        zerolog.Nop(),
		EnableSwagger: swagger,
	})
	return mux, a
}

func TestMount_Routes(t *testing.T) {
	mux, a := mount(t, false)

	if a.Registry.Len() != 2 {
		t.Fatalf("registry has %d modules", a.Registry.Len())
	}
	if len(a.Workers) != 1 {
		t.Fatalf("workers %d", len(a.Workers))
	}
	if _, nop := a.Workers[0].(repo.NopDemand); !nop {
		t.Fatalf("demand worker should be a no-op without clickhouse, got %T", a.Workers[0])
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" && !strings.Contains(rec.Body.String(), "request_id") {
		t.Fatalf("request id missing from %s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/days", strings.NewReader(`{"meeting_type":"intro-call"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("days on an empty db should 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("docs should be off, got %d", rec.Code)
	}
}

func TestMount_Swagger(t *testing.T) {
	mux, _ := mount(t, true)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("doc.json %d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	if _, ok := spec["servers"]; !ok {
		t.Fatalf("spec lacks servers: %v", spec)
	}
}
