// Package availability computes bookable appointment slots from business hours,
// existing bookings and a notice cutoff. It performs no I/O.
package availability

import (
	"time"

	ptime "scheduling/internal/platform/time"
)

// DayCount is one entry of an availability calendar
type DayCount struct {
	Date      ptime.Date `json:"date"`
	SlotCount int        `json:"slot_count"`
}

// Engine carries the constants every computation shares
// Step is the candidate grid; Location is the business time zone
type Engine struct {
	Step     time.Duration
	Location *time.Location
}

// New returns an Engine; a nil loc means UTC
func New(step time.Duration, loc *time.Location) Engine {
	if loc == nil {
		loc = time.UTC
	}
	return Engine{Step: step, Location: loc}
}

func (e Engine) loc() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// SlotsForDay walks the step grid from opening time and returns every start whose
// meeting fits before closing, is not before minBookable and overlaps no busy interval.
// The grid is anchored to opening time, not to busy boundaries.
func (e Engine) SlotsForDay(day ptime.Date, duration time.Duration, hours WeeklyHours, busy []Interval, minBookable time.Time) []time.Time {
	if e.Step <= 0 || duration <= 0 {
		return nil
	}
	dayStart, dayEnd, ok := hours.Window(day, e.loc())
	if !ok {
		return nil
	}

	var slots []time.Time
	for c := dayStart; c.Before(dayEnd); c = c.Add(e.Step) {
		end := c.Add(duration)
		if end.After(dayEnd) {
			break
		}
		if c.Before(minBookable) {
			continue
		}
		if conflicts(c, end, busy) {
			continue
		}
		slots = append(slots, c)
	}
	return slots
}

// AvailableDays runs SlotsForDay over [start, start+horizonDays) and keeps days with
// at least one slot, in ascending date order
func (e Engine) AvailableDays(start ptime.Date, horizonDays int, duration time.Duration, hours WeeklyHours, busyByDay map[ptime.Date][]Interval, minBookable time.Time) []DayCount {
	var out []DayCount
	for _, d := range start.Dates(horizonDays) {
		n := len(e.SlotsForDay(d, duration, hours, busyByDay[d], minBookable))
		if n > 0 {
			out = append(out, DayCount{Date: d, SlotCount: n})
		}
	}
	return out
}

// IsSlot reports whether start is exactly one of the day's slots
func (e Engine) IsSlot(start time.Time, duration time.Duration, hours WeeklyHours, busy []Interval, minBookable time.Time) bool {
	day := ptime.DateOf(start, e.loc())
	for _, s := range e.SlotsForDay(day, duration, hours, busy, minBookable) {
		if s.Equal(start) {
			return true
		}
		if s.After(start) {
			return false
		}
	}
	return false
}

// BucketByDay assigns each valid interval to every local day of [from, from+days) it touches
func (e Engine) BucketByDay(from ptime.Date, days int, busy []Interval) map[ptime.Date][]Interval {
	loc := e.loc()
	out := make(map[ptime.Date][]Interval, days)
	for _, d := range from.Dates(days) {
		lo, hi := d.Midnight(loc), d.AddDays(1).Midnight(loc)
		for _, b := range busy {
			if b.Valid() && Overlaps(lo, hi, b.Start, b.End) {
				out[d] = append(out[d], b)
			}
		}
	}
	return out
}
