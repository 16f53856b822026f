package domain

import (
	"context"
	"time"

	"scheduling/internal/modkit/repokit"
)

// ServicePort is consumed by handlers, the CLI and other modules
type ServicePort interface {
	Slots(ctx context.Context, in SlotsInput) (DaySlots, error)
	Days(ctx context.Context, in DaysInput) (Calendar, error)
	Check(ctx context.Context, in CheckInput) (CheckResult, error)
}

// SlotGuard re-validates a slot inside one transaction and runs fn in it
// fn receives the tx bound Queryer so the caller's write commits atomically with the check
type SlotGuard interface {
	Guard(ctx context.Context, meetingType string, start time.Time, fn func(q repokit.Queryer) error) error
}

// DemandRecorder accepts demand events without blocking
type DemandRecorder interface {
	Record(ev DemandEvent)
}

// Worker is a background loop owned by the composition root
type Worker interface {
	Run(ctx context.Context) error
}
