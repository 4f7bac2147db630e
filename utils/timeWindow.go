package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type PeriodOption string

const (
	PeriodAll       PeriodOption = "all"
	PeriodToday     PeriodOption = "today"
	PeriodYesterday PeriodOption = "yesterday"
	PeriodThisWeek  PeriodOption = "this_week"
	PeriodThisMonth PeriodOption = "this_month"
	PeriodLastMonth PeriodOption = "last_month"
	PeriodThisYear  PeriodOption = "this_year"
	PeriodCustom    PeriodOption = "custom"
)

const DateKeyLayout = "2006-01-02"

var ErrUnknownPeriod = errors.New("unknown period option")

// InvalidRangeError reports a custom range with a missing bound or start after end.
type InvalidRangeError struct {
	Start  *time.Time
	End    *time.Time
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return "invalid date range: " + e.Reason
}

// TimeWindow is an inclusive [Start, End] range. Unbounded windows match every instant;
// callers decide whether "all" means no date filter or a lifetime merge.
type TimeWindow struct {
	Option    PeriodOption `json:"option"`
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
	Unbounded bool         `json:"unbounded"`
}

func (w TimeWindow) Contains(t time.Time) bool {
	if w.Unbounded {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

func ParsePeriodOption(s string) (PeriodOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodAll, nil
	}
	switch opt := PeriodOption(s); opt {
	case PeriodAll, PeriodToday, PeriodYesterday, PeriodThisWeek, PeriodThisMonth,
		PeriodLastMonth, PeriodThisYear, PeriodCustom:
		return opt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// ParsePeriodParams reads a period selector together with optional from/to bounds.
// Bounds with no period mean custom; bounds with any other period are rejected.
func ParsePeriodParams(raw string, from, to *time.Time) (PeriodOption, error) {
	hasBounds := from != nil || to != nil
	if strings.TrimSpace(raw) == "" && hasBounds {
		return PeriodCustom, nil
	}
	opt, err := ParsePeriodOption(raw)
	if err != nil {
		return "", err
	}
	if hasBounds && opt != PeriodCustom {
		return "", &InvalidRangeError{Start: from, End: to, Reason: fmt.Sprintf("from/to need period custom, got %s", opt)}
	}
	return opt, nil
}

// ResolveTimeWindow maps a period selector to a concrete range in loc. Weeks start on Monday.
// "So far" periods (this_week, this_month, this_year) end at the end of today.
func ResolveTimeWindow(option PeriodOption, customStart, customEnd *time.Time, now time.Time, loc *time.Location) (TimeWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := StartOfDay(now, loc)
	w := TimeWindow{Option: option}

	switch option {
	case PeriodAll:
		w.Unbounded = true
	case PeriodToday:
		w.Start, w.End = today, EndOfDay(today, loc)
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		w.Start, w.End = y, EndOfDay(y, loc)
	case PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		w.Start, w.End = today.AddDate(0, 0, -offset), EndOfDay(today, loc)
	case PeriodThisMonth:
		w.Start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		w.End = EndOfDay(today, loc)
	case PeriodLastMonth:
		thisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		w.Start = thisMonth.AddDate(0, -1, 0)
		w.End = EndOfDay(thisMonth.AddDate(0, 0, -1), loc)
	case PeriodThisYear:
		w.Start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, loc)
		w.End = EndOfDay(today, loc)
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return TimeWindow{}, &InvalidRangeError{Start: customStart, End: customEnd, Reason: "custom range requires both start and end"}
		}
		start := StartOfDay(*customStart, loc)
		end := StartOfDay(*customEnd, loc)
		if start.After(end) {
			return TimeWindow{}, &InvalidRangeError{Start: customStart, End: customEnd, Reason: "start is after end"}
		}
		w.Start, w.End = start, EndOfDay(end, loc)
	default:
		return TimeWindow{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, option)
	}
	return w, nil
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DateKey is the calendar date of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return StartOfDay(t, loc).Format(DateKeyLayout)
}

// DaysBetween counts calendar days from `from` to `to` in loc, negative when to is earlier.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	a := StartOfDay(from, loc)
	b := StartOfDay(to, loc)
	// Compare as UTC dates so DST shifts do not skew the count.
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// ParseDateParam accepts YYYY-MM-DD or RFC3339. Empty input yields nil.
func ParseDateParam(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateKeyLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return &t, nil
}
