package module

import (
	"time"

	"scheduling/internal/platform/config"
)

// Options configures the availability module
type Options struct {
	Location    *time.Location
	Step        time.Duration
	MinNotice   time.Duration
	HorizonDays int
	CacheTTL    time.Duration
	// RateLimit is requests per second per client IP, 0 disables it
	RateLimit int
	LockKey   int64

	// GuardTimeout bounds the guard transaction statements
	GuardTimeout time.Duration

	DemandBuffer int
	DemandBatch  int
	DemandFlush  time.Duration
}

// defaultLockKey is an arbitrary constant shared by every guard of one calendar
const defaultLockKey = 7_305_001

// FromConfig reads CORE_AVAILABILITY_*
func FromConfig(root config.Conf) Options {
	c := root.Prefix("CORE_AVAILABILITY_")
	return Options{
		Location:     c.MayLocation("TIMEZONE", "UTC"),
		Step:         time.Duration(c.MayPositiveInt("STEP_MINUTES", 30)) * time.Minute,
		MinNotice:    c.MayDuration("MIN_NOTICE", 2*time.Hour),
		HorizonDays:  c.MayPositiveInt("HORIZON_DAYS", 30),
		CacheTTL:     c.MayDuration("CACHE_TTL", 5*time.Minute),
		RateLimit:    c.MayInt("RATE_LIMIT", 20),
		LockKey:      int64(c.MayInt("LOCK_KEY", defaultLockKey)),
		GuardTimeout: c.MayDuration("GUARD_TIMEOUT", 5*time.Second),
		DemandBuffer: c.MayPositiveInt("DEMAND_BUFFER", 4096),
		DemandBatch:  c.MayPositiveInt("DEMAND_BATCH", 500),
		DemandFlush:  c.MayDuration("DEMAND_FLUSH", 5*time.Second),
	}
}
