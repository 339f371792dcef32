package model

import (
	"time"

	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrUnknownScope      = goerr.New("unknown scope")
	ErrInvalidWindowDays = goerr.New("window days must be positive")
)

// Interval is an inclusive [From, To] range of local time
type Interval struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the interval, bounds included
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.From) && !t.After(i.To)
}

// FromString formats From as a zone-less local timestamp
func (i Interval) FromString() string {
	return i.From.Format(LocalTimeLayout)
}

// ToString formats To as a zone-less local timestamp
func (i Interval) ToString() string {
	return i.To.Format(LocalTimeLayout)
}

// String returns "from..to" in local wire format
func (i Interval) String() string {
	return i.FromString() + ".." + i.ToString()
}

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's calendar day in t's location
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func addDays(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ResolveScope maps a named scope to its interval relative to now. Weeks
// start on Monday regardless of locale.
func ResolveScope(name types.ScopeName, now time.Time) (Interval, error) {
	switch name {
	case types.ScopeToday:
		return Interval{From: StartOfDay(now), To: EndOfDay(now)}, nil

	case types.ScopeTomorrow:
		next := addDays(now, 1)
		return Interval{From: StartOfDay(next), To: EndOfDay(next)}, nil

	case types.ScopeWeek:
		offset := (int(now.Weekday()) + 6) % 7
		monday := addDays(now, -offset)
		sunday := addDays(monday, 6)
		return Interval{From: StartOfDay(monday), To: EndOfDay(sunday)}, nil

	case types.ScopeMonth:
		y, m, _ := now.Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location())
		return Interval{From: first, To: EndOfDay(last)}, nil

	default:
		return Interval{}, goerr.Wrap(ErrUnknownScope, "failed to resolve scope", goerr.V("scope", name))
	}
}

// RollingWindow returns the interval covering the last days calendar days up
// to the end of today.
func RollingWindow(days int, now time.Time) (Interval, error) {
	if days <= 0 {
		return Interval{}, goerr.Wrap(ErrInvalidWindowDays, "failed to build rolling window", goerr.V("days", days))
	}
	return Interval{From: StartOfDay(addDays(now, -days)), To: EndOfDay(now)}, nil
}
