package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memRows is an in memory Rows and pgx.Rows over fixed data
type memRows struct {
	cols   []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newMemRows(cols []string, data ...[]any) *memRows {
	return &memRows{cols: cols, data: data, idx: -1}
}

func (r *memRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}

func (r *memRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.data) {
		return errors.New("scan out of range")
	}
	src := r.data[r.idx]
	if len(src) != len(dest) {
		return fmt.Errorf("scan: %d values into %d dest", len(src), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = src[i].(int)
		case *string:
			*p = src[i].(string)
		case *any:
			*p = src[i]
		default:
			return fmt.Errorf("unsupported dest %T", d)
		}
	}
	return nil
}

func (r *memRows) Err() error { return r.err }
func (r *memRows) Close()     { r.closed = true }
func (r *memRows) Columns() []string {
	return r.cols
}

// pgx.Rows extras
func (r *memRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *memRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}
func (r *memRows) Values() ([]any, error) { return r.data[r.idx], nil }
func (r *memRows) RawValues() [][]byte    { return nil }
func (r *memRows) Conn() *pgx.Conn        { return nil }

// scanRow is a pgx.Row backed by a func
type scanRow func(dest ...any) error

func (f scanRow) Scan(dest ...any) error { return f(dest...) }

// fakeQuerier implements RowQuerier with canned answers
type fakeQuerier struct {
	rows    *memRows
	qErr    error
	tag     CommandTag
	execErr error
	scanErr error
	scanVal int
}

func (f *fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) {
	return f.tag, f.execErr
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if f.qErr != nil {
		return nil, f.qErr
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) Row {
	return scanRow(func(dest ...any) error {
		if f.scanErr != nil {
			return f.scanErr
		}
		*(dest[0].(*int)) = f.scanVal
		return nil
	})
}

// fakePGX implements pgxBeginner; Begin hands out fakeTx values
type fakePGX struct {
	execSQL  []string
	beginErr error
	txs      []*fakeTx
	commitFn func(n int) error
}

func (f *fakePGX) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakePGX) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return newMemRows([]string{"id", "slug"}, []any{1, "intro"}), nil
}

func (f *fakePGX) QueryRow(context.Context, string, ...any) pgx.Row {
	return scanRow(func(dest ...any) error { *(dest[0].(*int)) = 1; return nil })
}

func (f *fakePGX) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	tx := &fakeTx{parent: f, n: len(f.txs) + 1}
	f.txs = append(f.txs, tx)
	return tx, nil
}

// fakeTx overrides the pgx.Tx calls the adapter makes; others panic via the nil embed
type fakeTx struct {
	pgx.Tx
	parent     *fakePGX
	n          int
	execSQL    []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	return pgconn.NewCommandTag("SELECT 1"), nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.parent.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.parent.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	if t.parent.commitFn != nil {
		return t.parent.commitFn(t.n)
	}
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

// fakePinger is a closable pinger used for ch and redis seams
type fakePinger struct {
	err      error
	closeErr error
	closed   bool
}

func (p *fakePinger) Ping(context.Context) error { return p.err }
func (p *fakePinger) Close() error               { p.closed = true; return p.closeErr }
