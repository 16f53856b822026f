package availability

import "time"

// Interval is a half-open occupied range [Start, End)
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports Start < End
func (iv Interval) Valid() bool { return iv.Start.Before(iv.End) }

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// conflicts reports whether [start, end) overlaps any busy interval
// busy is unordered so every entry is checked
func conflicts(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
