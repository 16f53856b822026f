package repo

import (
	"context"
	"sync/atomic"
	"time"

	"scheduling/internal/platform/logger"
	"scheduling/internal/platform/store"
	"scheduling/internal/services/api/availability/domain"
)

var demandColumns = []string{"at", "kind", "meeting_type_id", "day", "slot_count", "request_id"}

// DemandSink records events and flushes them from a background loop
type DemandSink interface {
	domain.DemandRecorder
	domain.Worker
}

var (
	_ DemandSink = (*Demand)(nil)
	_ DemandSink = NopDemand{}
)

// DemandOptions sizes the in memory buffer and the flush policy
type DemandOptions struct {
	Buffer int
	Batch  int
	Flush  time.Duration
}

func (o DemandOptions) withDefaults() DemandOptions {
	if o.Buffer <= 0 {
		o.Buffer = 4096
	}
	if o.Batch <= 0 {
		o.Batch = 500
	}
	if o.Flush <= 0 {
		o.Flush = 5 * time.Second
	}
	return o
}

// Demand buffers events and batches them into clickhouse from Run
type Demand struct {
	ch      store.Clickhouse
	events  chan domain.DemandEvent
	batch   int
	flush   time.Duration
	log     logger.Logger
	dropped atomic.Int64
}

// NewDemand returns a recorder writing to ch; call Run to start flushing
func NewDemand(ch store.Clickhouse, o DemandOptions, log logger.Logger) *Demand {
	o = o.withDefaults()
	return &Demand{
		ch:     ch,
		events: make(chan domain.DemandEvent, o.Buffer),
		batch:  o.Batch,
		flush:  o.Flush,
		log:    log,
	}
}

// Record enqueues ev, dropping it when the buffer is full
func (d *Demand) Record(ev domain.DemandEvent) {
	select {
	case d.events <- ev:
	default:
		if n := d.dropped.Add(1); n == 1 || n%1000 == 0 {
			d.log.Warn().Int64("dropped", n).Msg("demand buffer full, dropping events")
		}
	}
}

// Dropped reports how many events were discarded
func (d *Demand) Dropped() int64 { return d.dropped.Load() }

// Run flushes on batch size or every flush interval until ctx is done,
// then drains what is buffered and flushes once more
func (d *Demand) Run(ctx context.Context) error {
	t := time.NewTicker(d.flush)
	defer t.Stop()

	buf := make([]domain.DemandEvent, 0, d.batch)
	write := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}
		if err := d.ch.Insert(ctx, DemandTable, demandColumns, demandRows(buf)); err != nil {
			d.log.Error().Err(err).Int("events", len(buf)).Msg("demand flush failed")
		}
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for drained := false; !drained; {
				select {
				case ev := <-d.events:
					buf = append(buf, ev)
				default:
					drained = true
				}
			}
			fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			write(fctx)
			cancel()
			return nil
		case ev := <-d.events:
			buf = append(buf, ev)
			if len(buf) >= d.batch {
				write(ctx)
			}
		case <-t.C:
			write(ctx)
		}
	}
}

func demandRows(evs []domain.DemandEvent) [][]any {
	out := make([][]any, 0, len(evs))
	for _, ev := range evs {
		out = append(out, []any{
			ev.At.UTC(),
			string(ev.Kind),
			ev.MeetingTypeID,
			ev.Day.Midnight(time.UTC),
			uint32(max(ev.SlotCount, 0)),
			ev.RequestID,
		})
	}
	return out
}

// NopDemand discards events, used when clickhouse is disabled
type NopDemand struct{}

// Record does nothing
func (NopDemand) Record(domain.DemandEvent) {}

// Run blocks until ctx is done
func (NopDemand) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
