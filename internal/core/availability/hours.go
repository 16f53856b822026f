package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	ptime "scheduling/internal/platform/time"
)

// Clock is a wall clock time of day in minutes since midnight
type Clock int

// EndOfDay is the "24:00" clock, only meaningful as a closing time
const EndOfDay Clock = 24 * 60

// ParseClock parses "HH:MM" (00:00..23:59, or 24:00)
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || !twoDigits(hh) || !twoDigits(mm) {
		return 0, fmt.Errorf("invalid clock %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q, want HH:MM", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q, want HH:MM", s)
	}
	if h == 24 && m == 0 {
		return EndOfDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return Clock(h*60 + m), nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// MustClock is ParseClock for literals; it panics on bad input
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component
func (c Clock) Minute() int { return int(c) % 60 }

// String formats the clock as HH:MM
func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// DayHours is the business window for one day of the week
type DayHours struct {
	Weekday time.Weekday
	Start   Clock
	End     Clock
	Active  bool
}

// WeeklyHours maps a weekday to its business window
// build it with NewWeeklyHours so the invariants hold
type WeeklyHours struct {
	days map[time.Weekday]DayHours
}

// NewWeeklyHours validates entries: weekday in 0..6, at most one entry per weekday,
// start < end on active days
func NewWeeklyHours(entries ...DayHours) (WeeklyHours, error) {
	days := make(map[time.Weekday]DayHours, len(entries))
	for _, e := range entries {
		if e.Weekday < time.Sunday || e.Weekday > time.Saturday {
			return WeeklyHours{}, fmt.Errorf("day_of_week %d out of range 0..6", int(e.Weekday))
		}
		if _, dup := days[e.Weekday]; dup {
			return WeeklyHours{}, fmt.Errorf("duplicate business hours for %s", e.Weekday)
		}
		if e.Active {
			if e.Start < 0 || e.End > EndOfDay {
				return WeeklyHours{}, fmt.Errorf("business hours for %s out of range", e.Weekday)
			}
			if e.Start >= e.End {
				return WeeklyHours{}, fmt.Errorf("business hours for %s: start %s must be before end %s", e.Weekday, e.Start, e.End)
			}
		}
		days[e.Weekday] = e
	}
	return WeeklyHours{days: days}, nil
}

// For returns the entry for wd and whether it exists
func (w WeeklyHours) For(wd time.Weekday) (DayHours, bool) {
	d, ok := w.days[wd]
	return d, ok
}

// Entries returns all entries ordered Sunday..Saturday
func (w WeeklyHours) Entries() []DayHours {
	out := make([]DayHours, 0, len(w.days))
	for _, d := range w.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out
}

// Window resolves the business window of day in loc
// ok is false when the weekday has no entry or the entry is inactive
func (w WeeklyHours) Window(day ptime.Date, loc *time.Location) (start, end time.Time, ok bool) {
	h, found := w.days[day.Weekday()]
	if !found || !h.Active {
		return time.Time{}, time.Time{}, false
	}
	start = day.At(h.Start.Hour(), h.Start.Minute(), loc)
	if h.End == EndOfDay {
		end = day.AddDays(1).Midnight(loc)
	} else {
		end = day.At(h.End.Hour(), h.End.Minute(), loc)
	}
	return start, end, start.Before(end)
}
