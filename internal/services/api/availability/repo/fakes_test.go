package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"scheduling/internal/core/availability"
	perr "scheduling/internal/platform/errors"
	"scheduling/internal/platform/store"
	"scheduling/internal/services/api/availability/domain"
)

// sliceRows replays fixed rows through store.Rows
type sliceRows struct {
	data [][]any
	i    int
}

func (r *sliceRows) Next() bool        { r.i++; return r.i <= len(r.data) }
func (r *sliceRows) Err() error        { return nil }
func (r *sliceRows) Close()            {}
func (r *sliceRows) Columns() []string { return nil }
func (r *sliceRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(row) != len(dest) {
		return fmt.Errorf("want %d dest got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *bool:
			*p = row[i].(bool)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return fmt.Errorf("unsupported %T", d)
		}
	}
	return nil
}

// scriptQ answers Query with rows and records the last statement
type scriptQ struct {
	rows    [][]any
	err     error
	lastSQL string
	args    []any
}

func (q *scriptQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	q.lastSQL = sql
	return pgconn.NewCommandTag("CREATE TABLE"), q.err
}

func (q *scriptQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.lastSQL, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return &sliceRows{data: q.rows}, nil
}

func (q *scriptQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

// memRedis is a map backed store.Redis
type memRedis struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttl     map[string]time.Duration
	getErr  error
	setErr  error
	gets    int
	deleted []string
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *memRedis) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memRedis) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = val
	m.ttl[key] = ttl
	return nil
}

func (m *memRedis) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

func (m *memRedis) Ping(context.Context) error { return nil }
func (m *memRedis) Close() error               { return nil }

// countingRepo counts calls per method
type countingRepo struct {
	mt       domain.MeetingType
	hours    []domain.HoursRow
	byID     int
	bySlug   int
	hoursN   int
	busyN    int
	notFound bool
}

func (c *countingRepo) MeetingTypeByID(context.Context, uuid.UUID) (domain.MeetingType, error) {
	c.byID++
	if c.notFound {
		return domain.MeetingType{}, perr.ErrNotFound
	}
	return c.mt, nil
}

func (c *countingRepo) MeetingTypeBySlug(context.Context, string) (domain.MeetingType, error) {
	c.bySlug++
	if c.notFound {
		return domain.MeetingType{}, perr.ErrNotFound
	}
	return c.mt, nil
}

func (c *countingRepo) BusinessHours(context.Context) ([]domain.HoursRow, error) {
	c.hoursN++
	return c.hours, nil
}

func (c *countingRepo) Busy(context.Context, time.Time, time.Time) ([]availability.Interval, error) {
	c.busyN++
	return nil, nil
}

// memCH is a store.Clickhouse capturing inserted batches
type memCH struct {
	mu      sync.Mutex
	batches [][][]any
	tables  []string
	execs   []string
	fail    bool
	sent    chan struct{}
}

func (c *memCH) Insert(_ context.Context, table string, _ []string, rows [][]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = append(c.tables, table)
	if c.fail {
		return errors.New("clickhouse down")
	}
	c.batches = append(c.batches, rows)
	if c.sent != nil {
		select {
		case c.sent <- struct{}{}:
		default:
		}
	}
	return nil
}

func (c *memCH) Exec(_ context.Context, sql string, _ ...any) error {
	c.execs = append(c.execs, sql)
	return nil
}

func (c *memCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (c *memCH) Ping(context.Context) error                               { return nil }
func (c *memCH) Close() error                                             { return nil }

func (c *memCH) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}
