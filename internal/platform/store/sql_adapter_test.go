package store

import (
	"context"
	"errors"
	"testing"

	"scheduling/internal/platform/store/pg"

	"github.com/jackc/pgx/v5/pgconn"
)

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func newTestAdapter(db *fakePGX, tr pg.QueryTracer) *pgAdapter {
	return &pgAdapter{traced: traced{q: db, tracer: tr, slowUS: 1}, db: db}
}

func TestPGAdapter_TracesStatements(t *testing.T) {
	t.Parallel()

	tr := &recTracer{}
	a := newTestAdapter(&fakePGX{}, tr)
	ctx := context.Background()

	if _, err := a.Exec(ctx, "UPDATE appointments SET status = $1", "cancelled"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	rs, err := a.Query(ctx, "SELECT id, slug FROM meeting_types")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "slug" {
		t.Fatalf("columns: %v", cols)
	}
	rs.Close()
	if err := a.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	if len(tr.events) != 3 {
		t.Fatalf("want 3 events got %d", len(tr.events))
	}
	if tr.events[0].SQL != "UPDATE appointments SET status = $1" || len(tr.events[0].Args) != 1 {
		t.Fatalf("exec event: %+v", tr.events[0])
	}
	if tr.events[2].SQL != "SELECT 1" {
		t.Fatalf("ping should trace SELECT 1: %+v", tr.events[2])
	}
}

func TestPGAdapter_TxCommitsAndTraces(t *testing.T) {
	t.Parallel()

	db := &fakePGX{}
	tr := &recTracer{}
	a := newTestAdapter(db, tr)

	err := a.Tx(context.Background(), func(q RowQuerier) error {
		_, err := q.Exec(context.Background(), "SELECT pg_advisory_xact_lock($1)", int64(42))
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if len(db.txs) != 1 || !db.txs[0].committed || db.txs[0].rolledBack {
		t.Fatalf("tx state: %+v", db.txs)
	}
	if len(db.txs[0].execSQL) != 1 || len(db.execSQL) != 0 {
		t.Fatalf("statement ran outside the tx")
	}
	if len(tr.events) != 1 {
		t.Fatalf("tx statements should be traced, got %d", len(tr.events))
	}
}

func TestPGAdapter_TxRollsBackOnError(t *testing.T) {
	t.Parallel()

	db := &fakePGX{}
	a := newTestAdapter(db, nil)
	boom := errors.New("boom")

	if err := a.Tx(context.Background(), func(RowQuerier) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if len(db.txs) != 1 || db.txs[0].committed || !db.txs[0].rolledBack {
		t.Fatalf("tx state: %+v", db.txs[0])
	}
}

func TestPGAdapter_TxRetriesSerializationFailure(t *testing.T) {
	t.Parallel()

	db := &fakePGX{commitFn: func(n int) error {
		if n < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	}}
	a := newTestAdapter(db, nil)

	calls := 0
	if err := a.Tx(context.Background(), func(RowQuerier) error { calls++; return nil }); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if calls != 3 || len(db.txs) != 3 {
		t.Fatalf("calls=%d txs=%d", calls, len(db.txs))
	}
}

func TestPGAdapter_TxGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	db := &fakePGX{commitFn: func(int) error { return &pgconn.PgError{Code: "40P01"} }}
	a := newTestAdapter(db, nil)

	if err := a.Tx(context.Background(), func(RowQuerier) error { return nil }); err == nil {
		t.Fatalf("expected deadlock error")
	}
	if len(db.txs) != maxTxAttempts {
		t.Fatalf("attempts %d want %d", len(db.txs), maxTxAttempts)
	}
}

func TestPGAdapter_BeginError(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(&fakePGX{beginErr: errors.New("no conn")}, nil)
	if err := a.Tx(context.Background(), func(RowQuerier) error { return nil }); err == nil {
		t.Fatalf("expected begin error")
	}
}

func TestPGAdapter_NilPing(t *testing.T) {
	t.Parallel()

	var a *pgAdapter
	if a.Ping(context.Background()) == nil {
		t.Fatalf("nil adapter ping should fail")
	}
}
