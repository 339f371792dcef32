package model

import (
	"fmt"
	"strings"
	"time"
)

// RelativeState places a timestamp against now
type RelativeState string

const (
	StatePast   RelativeState = "past"
	StateNow    RelativeState = "now"
	StateFuture RelativeState = "future"
)

// nowThreshold is the distance under which a timestamp reads as "now"
const nowThreshold = time.Minute

// Relative is a truncated distance between a timestamp and now
type Relative struct {
	State   RelativeState
	Days    int
	Hours   int
	Minutes int
}

// Describe compares ts to now. It is pure and cheap enough to run on every
// render tick.
func Describe(ts, now time.Time) Relative {
	diff := ts.Sub(now)
	mag := diff
	if mag < 0 {
		mag = -mag
	}
	if mag < nowThreshold {
		return Relative{State: StateNow}
	}

	state := StateFuture
	if diff < 0 {
		state = StatePast
	}

	const day = 24 * time.Hour
	return Relative{
		State:   state,
		Days:    int(mag / day),
		Hours:   int(mag % day / time.Hour),
		Minutes: int(mag % time.Hour / time.Minute),
	}
}

// Label renders the distance as "now", "in 2h 14m" or "2h 14m ago". Days
// suppress minutes.
func (r Relative) Label() string {
	if r.State == StateNow {
		return "now"
	}

	var parts []string
	switch {
	case r.Days > 0:
		parts = append(parts, fmt.Sprintf("%dd", r.Days))
		if r.Hours > 0 {
			parts = append(parts, fmt.Sprintf("%dh", r.Hours))
		}
	case r.Hours > 0:
		parts = append(parts, fmt.Sprintf("%dh", r.Hours), fmt.Sprintf("%dm", r.Minutes))
	default:
		parts = append(parts, fmt.Sprintf("%dm", r.Minutes))
	}

	span := strings.Join(parts, " ")
	if r.State == StateFuture {
		return "in " + span
	}
	return span + " ago"
}

// IsOverdue reports whether the timestamp is in the past
func (r Relative) IsOverdue() bool {
	return r.State == StatePast
}
