package store

import (
	"context"
	"errors"
	"testing"

	perr "scheduling/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type idSlug struct {
	ID   int
	Slug string
}

func scanIDSlug(r Row) (idSlug, error) {
	var v idSlug
	err := r.Scan(&v.ID, &v.Slug)
	return v, err
}

func TestExecOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if err := ExecOne(ctx, &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}, "x"); err != nil {
		t.Fatalf("one row: %v", err)
	}
	if err := ExecOne(ctx, &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 10")}, "x"); err == nil {
		t.Fatalf("ten rows should fail")
	}
	if err := ExecOne(ctx, &fakeQuerier{execErr: errors.New("boom")}, "x"); err == nil {
		t.Fatalf("exec error should surface")
	}
}

func TestScalar(t *testing.T) {
	t.Parallel()

	v, err := Scalar[int](context.Background(), &fakeQuerier{scanVal: 7}, "SELECT 7")
	if err != nil || v != 7 {
		t.Fatalf("Scalar = %d, %v", v, err)
	}
	if _, err := Scalar[int](context.Background(), &fakeQuerier{scanErr: errors.New("x")}, "x"); err == nil {
		t.Fatalf("scan error should surface")
	}
}

func TestOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	q := &fakeQuerier{rows: newMemRows([]string{"id", "slug"}, []any{1, "intro"})}
	got, err := One(ctx, q, scanIDSlug, "x")
	if err != nil || got != (idSlug{1, "intro"}) {
		t.Fatalf("One = %+v, %v", got, err)
	}
	if !q.rows.closed {
		t.Fatalf("rows not closed")
	}

	_, err = One(ctx, &fakeQuerier{rows: newMemRows(nil)}, scanIDSlug, "x")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("no rows should be not found, got %v", err)
	}

	_, err = One(ctx, &fakeQuerier{rows: newMemRows(nil, []any{1, "a"}, []any{2, "b"})}, scanIDSlug, "x")
	if err == nil {
		t.Fatalf("two rows should fail")
	}

	_, err = One(ctx, &fakeQuerier{qErr: errors.New("q")}, scanIDSlug, "x")
	if err == nil {
		t.Fatalf("query error should surface")
	}
}

func TestMany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	q := &fakeQuerier{rows: newMemRows(nil, []any{1, "a"}, []any{2, "b"})}
	got, err := Many(ctx, q, scanIDSlug, "x")
	if err != nil || len(got) != 2 || got[1].Slug != "b" {
		t.Fatalf("Many = %+v, %v", got, err)
	}

	got, err = Many(ctx, &fakeQuerier{rows: newMemRows(nil)}, scanIDSlug, "x")
	if err != nil || got != nil {
		t.Fatalf("empty Many = %+v, %v", got, err)
	}

	bad := newMemRows(nil, []any{1})
	if _, err := Many(ctx, &fakeQuerier{rows: bad}, scanIDSlug, "x"); err == nil {
		t.Fatalf("scan error should surface")
	}
}
