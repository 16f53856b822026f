// Package service orchestrates availability queries and slot guarding
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scheduling/internal/core/availability"
	"scheduling/internal/modkit/repokit"
	perr "scheduling/internal/platform/errors"
	"scheduling/internal/platform/logger"
	pnet "scheduling/internal/platform/net"
	ptime "scheduling/internal/platform/time"
	"scheduling/internal/services/api/availability/domain"
	"scheduling/internal/services/api/availability/repo"
)

// Service is the availability contract handlers and callers use
type Service interface {
	domain.ServicePort
	domain.SlotGuard
}

// Options carries the policy constants
type Options struct {
	Location    *time.Location
	Step        time.Duration
	MinNotice   time.Duration
	HorizonDays int
	// LockKey is the advisory lock serializing guards
	LockKey int64
	// GuardTimeout bounds every guard statement, lock wait included; 0 means no bound
	GuardTimeout time.Duration
}

// Svc implements Service
type Svc struct {
	db     repokit.TxRunner
	guard  repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	repo   repo.Repo
	engine availability.Engine
	opt    Options
	demand domain.DemandRecorder

	now func() time.Time
}

// New constructs the service; demand may be nil
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], demand domain.DemandRecorder, opt Options) *Svc {
	if db == nil {
		panic("availability.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("availability.Service requires a non nil Repo binder")
	}
	if demand == nil {
		demand = repo.NopDemand{}
	}
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	// the timeout comes first so it also bounds the lock wait
	guard := repokit.WithBeginHooks(db,
		repokit.SetLocalTimeout(int(opt.GuardTimeout.Milliseconds())),
		repokit.AdvisoryXactLock(opt.LockKey),
	)
	return &Svc{
		db:     db,
		guard:  guard,
		binder: binder,
		repo:   repokit.MustBind(binder, db),
		engine: availability.New(opt.Step, opt.Location),
		opt:    opt,
		demand: demand,
		now:    time.Now,
	}
}

// WithClock swaps the time source, for tests and the CLI
func (s *Svc) WithClock(now func() time.Time) *Svc {
	s.now = now
	return s
}

// Slots answers "slots for one day"
func (s *Svc) Slots(ctx context.Context, in domain.SlotsInput) (domain.DaySlots, error) {
	day, err := ptime.ParseDate(in.Date)
	if err != nil {
		return domain.DaySlots{}, perr.WithField(perr.InvalidArgf("date must be a valid YYYY-MM-DD date"), "date")
	}
	mt, err := s.meetingType(ctx, s.repo, in.MeetingType)
	if err != nil {
		return domain.DaySlots{}, err
	}
	hours, err := s.hours(ctx, s.repo)
	if err != nil {
		return domain.DaySlots{}, err
	}

	loc := s.opt.Location
	busy, err := s.repo.Busy(ctx, day.Midnight(loc), day.AddDays(1).Midnight(loc))
	if err != nil {
		return domain.DaySlots{}, err
	}

	slots := s.engine.SlotsForDay(day, mt.Duration(), hours, busy, s.minBookable())
	if slots == nil {
		slots = []time.Time{}
	}

	s.record(ctx, domain.DemandSlots, mt.ID, day, len(slots))
	return domain.DaySlots{
		MeetingTypeID:   mt.ID,
		Date:            day,
		TimeZone:        loc.String(),
		DurationMinutes: mt.DurationMinutes,
		StepMinutes:     int(s.opt.Step / time.Minute),
		Slots:           slots,
	}, nil
}

// Days answers "available days in range" from today in the business zone
func (s *Svc) Days(ctx context.Context, in domain.DaysInput) (domain.Calendar, error) {
	mt, err := s.meetingType(ctx, s.repo, in.MeetingType)
	if err != nil {
		return domain.Calendar{}, err
	}
	hours, err := s.hours(ctx, s.repo)
	if err != nil {
		return domain.Calendar{}, err
	}

	loc := s.opt.Location
	from := ptime.DateOf(s.now(), loc)
	n := s.opt.HorizonDays
	busy, err := s.repo.Busy(ctx, from.Midnight(loc), from.AddDays(n).Midnight(loc))
	if err != nil {
		return domain.Calendar{}, err
	}

	days := s.engine.AvailableDays(from, n, mt.Duration(), hours, s.engine.BucketByDay(from, n, busy), s.minBookable())
	if days == nil {
		days = []availability.DayCount{}
	}

	s.record(ctx, domain.DemandDays, mt.ID, from, len(days))
	return domain.Calendar{
		MeetingTypeID: mt.ID,
		TimeZone:      loc.String(),
		From:          from,
		HorizonDays:   n,
		Days:          days,
	}, nil
}

// Check validates one start through the guard without writing anything
func (s *Svc) Check(ctx context.Context, in domain.CheckInput) (domain.CheckResult, error) {
	start, err := time.Parse(time.RFC3339, in.Start)
	if err != nil {
		return domain.CheckResult{}, perr.WithField(perr.InvalidArgf("start must be an RFC3339 timestamp"), "start")
	}

	var mt domain.MeetingType
	err = s.guardSlot(ctx, in.MeetingType, start, func(m domain.MeetingType, _ repokit.Queryer) error {
		mt = m
		return nil
	})
	if err != nil {
		return domain.CheckResult{}, err
	}

	start = start.In(s.opt.Location)
	s.record(ctx, domain.DemandCheck, mt.ID, ptime.DateOf(start, s.opt.Location), 1)
	return domain.CheckResult{Available: true, Start: start, End: start.Add(mt.Duration())}, nil
}

// Guard re-validates start under the calendar lock and runs fn in the same tx
// InvalidArgument means start was never a slot, Conflict means it has been taken
func (s *Svc) Guard(ctx context.Context, meetingType string, start time.Time, fn func(q repokit.Queryer) error) error {
	return s.guardSlot(ctx, meetingType, start, func(_ domain.MeetingType, q repokit.Queryer) error {
		if fn == nil {
			return nil
		}
		return fn(q)
	})
}

func (s *Svc) guardSlot(ctx context.Context, ref string, start time.Time, fn func(domain.MeetingType, repokit.Queryer) error) error {
	mt, err := s.meetingType(ctx, s.repo, ref)
	if err != nil {
		return err
	}
	hours, err := s.hours(ctx, s.repo)
	if err != nil {
		return err
	}

	loc := s.opt.Location
	day := ptime.DateOf(start, loc)
	dayStart, dayEnd, open := hours.Window(day, loc)
	minBookable := s.minBookable()
	if !open || !s.engine.IsSlot(start, mt.Duration(), hours, nil, minBookable) {
		return perr.WithField(perr.InvalidArgf("%s is not a bookable slot", start.Format(time.RFC3339)), "start")
	}

	return s.guard.Tx(ctx, func(q repokit.Queryer) error {
		busy, err := s.binder.Bind(q).Busy(ctx, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if !s.engine.IsSlot(start, mt.Duration(), hours, busy, minBookable) {
			logger.C(ctx).Info().
				Str("meeting_type", mt.Slug).
				Time("start", start).
				Msg("slot taken between read and guard")
			return perr.Conflictf("slot no longer available")
		}
		return fn(mt, q)
	})
}

// meetingType resolves a UUID or slug to an active meeting type with a positive duration
func (s *Svc) meetingType(ctx context.Context, r repo.Repo, ref string) (domain.MeetingType, error) {
	var (
		mt  domain.MeetingType
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		mt, err = r.MeetingTypeByID(ctx, id)
	} else {
		mt, err = r.MeetingTypeBySlug(ctx, ref)
	}
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return mt, perr.WithField(perr.NotFoundf("meeting type %q not found", ref), "meeting_type")
		}
		return mt, err
	}
	if !mt.Active {
		return mt, perr.WithField(perr.NotFoundf("meeting type %q not found", ref), "meeting_type")
	}
	if mt.DurationMinutes <= 0 {
		return mt, perr.WithField(perr.InvalidArgf("meeting type %q has no positive duration", ref), "meeting_type")
	}
	return mt, nil
}

// hours loads and validates the business hours table
// a malformed table is a server side configuration error
func (s *Svc) hours(ctx context.Context, r repo.Repo) (availability.WeeklyHours, error) {
	rows, err := r.BusinessHours(ctx)
	if err != nil {
		return availability.WeeklyHours{}, err
	}
	entries := make([]availability.DayHours, 0, len(rows))
	for _, row := range rows {
		start, err := availability.ParseClock(row.StartTime)
		if err != nil {
			return availability.WeeklyHours{}, perr.Wrap(err, perr.ErrorCodeUnknown, "invalid business hours configuration")
		}
		end, err := availability.ParseClock(row.EndTime)
		if err != nil {
			return availability.WeeklyHours{}, perr.Wrap(err, perr.ErrorCodeUnknown, "invalid business hours configuration")
		}
		entries = append(entries, availability.DayHours{
			Weekday: time.Weekday(row.DayOfWeek),
			Start:   start,
			End:     end,
			Active:  row.Active,
		})
	}
	h, err := availability.NewWeeklyHours(entries...)
	if err != nil {
		return h, perr.Wrap(err, perr.ErrorCodeUnknown, "invalid business hours configuration")
	}
	return h, nil
}

func (s *Svc) minBookable() time.Time { return s.now().Add(s.opt.MinNotice) }

func (s *Svc) record(ctx context.Context, kind domain.DemandKind, id uuid.UUID, day ptime.Date, n int) {
	s.demand.Record(domain.DemandEvent{
		At:            s.now(),
		Kind:          kind,
		MeetingTypeID: id,
		Day:           day,
		SlotCount:     n,
		RequestID:     pnet.RequestID(ctx),
	})
}
