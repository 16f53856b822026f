// Package repo provides postgres, redis and clickhouse access for availability
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scheduling/internal/core/availability"
	"scheduling/internal/modkit/repokit"
	perr "scheduling/internal/platform/errors"
	"scheduling/internal/platform/store"
	"scheduling/internal/services/api/availability/domain"
)

// Repo is the read surface availability needs
type Repo interface {
	MeetingTypeByID(ctx context.Context, id uuid.UUID) (domain.MeetingType, error)
	MeetingTypeBySlug(ctx context.Context, slug string) (domain.MeetingType, error)
	BusinessHours(ctx context.Context) ([]domain.HoursRow, error)
	// Busy returns pending and confirmed appointments overlapping [from, to)
	Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error)
}

type (
	// PG binds the postgres repo to a pool or a tx
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires q to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const meetingTypeCols = `id::text, slug, name, duration_minutes, active`

func scanMeetingType(r store.Row) (domain.MeetingType, error) {
	var (
		m  domain.MeetingType
		id string
	)
	if err := r.Scan(&id, &m.Slug, &m.Name, &m.DurationMinutes, &m.Active); err != nil {
		return m, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return m, err
	}
	m.ID = parsed
	return m, nil
}

func (r *queries) MeetingTypeByID(ctx context.Context, id uuid.UUID) (domain.MeetingType, error) {
	m, err := store.One(ctx, r.q, scanMeetingType,
		`select `+meetingTypeCols+` from meeting_types where id = $1`, id.String())
	if err != nil {
		return m, perr.FromPostgresf(err, "meeting type %s", id)
	}
	return m, nil
}

func (r *queries) MeetingTypeBySlug(ctx context.Context, slug string) (domain.MeetingType, error) {
	m, err := store.One(ctx, r.q, scanMeetingType,
		`select `+meetingTypeCols+` from meeting_types where slug = $1`, slug)
	if err != nil {
		return m, perr.FromPostgresf(err, "meeting type %q", slug)
	}
	return m, nil
}

func (r *queries) BusinessHours(ctx context.Context) ([]domain.HoursRow, error) {
	const sql = `
select day_of_week, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), is_active
from business_hours
order by day_of_week asc
`
	rows, err := store.Many(ctx, r.q, func(row store.Row) (domain.HoursRow, error) {
		var h domain.HoursRow
		err := row.Scan(&h.DayOfWeek, &h.StartTime, &h.EndTime, &h.Active)
		return h, err
	}, sql)
	if err != nil {
		return nil, perr.FromPostgresf(err, "business hours")
	}
	return rows, nil
}

func (r *queries) Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	const sql = `
select starts_at, ends_at
from appointments
where status in ('pending', 'confirmed')
and starts_at < $2
and ends_at > $1
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (availability.Interval, error) {
		var iv availability.Interval
		err := row.Scan(&iv.Start, &iv.End)
		return iv, err
	}, sql, from, to)
	if err != nil {
		return nil, perr.FromPostgresf(err, "busy intervals")
	}
	return out, nil
}
