package domain

import (
	"fmt"
	"iter"
	"strconv"
	"time"
)

// CycleLayout is the YYYYMMDDHH format used for cycle directories and the
// configured date window.
const CycleLayout = "2006010215"

// CycleRange is the set of forecast initialization times between Start and
// End (inclusive) at a fixed interval.
type CycleRange struct {
	Start    time.Time
	End      time.Time
	Interval time.Duration
}

// ParseCycleTime parses an exact YYYYMMDDHH string as a UTC time.
func ParseCycleTime(s string) (time.Time, error) {
	if len(s) != len(CycleLayout) || !isDigits(s) {
		return time.Time{}, fmt.Errorf("%w: %q is not in YYYYMMDDHH format", ErrInvalidCycleTime, s)
	}
	t, err := time.ParseInLocation(CycleLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidCycleTime, s, err)
	}
	return t, nil
}

// ParseCycleInterval parses a two-digit hour count such as "06" or "24".
func ParseCycleInterval(s string) (time.Duration, error) {
	if len(s) != 2 || !isDigits(s) {
		return 0, fmt.Errorf("%w: %q is not in HH format", ErrInvalidInterval, s)
	}
	hours, _ := strconv.Atoi(s)
	if hours <= 0 {
		return 0, fmt.Errorf("%w: %q must be a positive number of hours", ErrInvalidInterval, s)
	}
	return time.Duration(hours) * time.Hour, nil
}

// NewCycleRange validates the window and interval.
func NewCycleRange(start, end time.Time, interval time.Duration) (CycleRange, error) {
	if interval <= 0 {
		return CycleRange{}, fmt.Errorf("%w: interval %s must be positive", ErrInvalidRange, interval)
	}
	if end.Before(start) {
		return CycleRange{}, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidRange, FormatCycle(end), FormatCycle(start))
	}
	return CycleRange{Start: start, End: end, Interval: interval}, nil
}

// ParseCycleWindow parses the configured start, end and interval strings.
func ParseCycleWindow(start, end, interval string) (CycleRange, error) {
	s, err := ParseCycleTime(start)
	if err != nil {
		return CycleRange{}, fmt.Errorf("start date: %w", err)
	}
	e, err := ParseCycleTime(end)
	if err != nil {
		return CycleRange{}, fmt.Errorf("end date: %w", err)
	}
	step, err := ParseCycleInterval(interval)
	if err != nil {
		return CycleRange{}, err
	}
	return NewCycleRange(s, e, step)
}

// All yields every cycle time in ascending order. The sequence can be ranged
// over any number of times.
func (r CycleRange) All() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if r.Interval <= 0 {
			return
		}
		for t := r.Start; !t.After(r.End); t = t.Add(r.Interval) {
			if !yield(t) {
				return
			}
		}
	}
}

// Len is the number of cycle times All yields.
func (r CycleRange) Len() int {
	if r.Interval <= 0 || r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start)/r.Interval) + 1
}

// FormatCycle renders t as YYYYMMDDHH.
func FormatCycle(t time.Time) string {
	return t.UTC().Format(CycleLayout)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
