package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// LocalTimeLayout is the wire format of zone-less local timestamps used in
// query parameters.
const LocalTimeLayout = "2006-01-02 15:04:05"

const isoLocalLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	LocalTimeLayout,
	isoLocalLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// zonedLayouts accept Z or a numeric offset after either separator. Fractional
// seconds are accepted by time.Parse without a layout field.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07",
}

// ErrInvalidTimestamp is returned when a timestamp string matches no known layout
var ErrInvalidTimestamp = goerr.New("invalid timestamp")

// Timestamp is a point in time tagged with how it was written on the wire.
// Local values carried no zone and are interpreted in the decoder's location;
// absolute values carried Z or an offset.
type Timestamp struct {
	t        time.Time
	absolute bool
}

// Local tags t as a zone-less wall-clock value
func Local(t time.Time) Timestamp {
	return Timestamp{t: t}
}

// Absolute tags t as an instant with an explicit zone
func Absolute(t time.Time) Timestamp {
	return Timestamp{t: t, absolute: true}
}

// ParseTimestamp parses s once at the system boundary. Values with a zone
// suffix become Absolute; anything else is read as wall-clock time in loc.
func ParseTimestamp(s string, loc *time.Location) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, goerr.Wrap(ErrInvalidTimestamp, "empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Absolute(t), nil
		}
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Local(t), nil
		}
	}

	return Timestamp{}, goerr.Wrap(ErrInvalidTimestamp, "unrecognized timestamp layout", goerr.V("value", s))
}

// Time returns the instant
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// IsAbsolute reports whether the value carried an explicit zone
func (ts Timestamp) IsAbsolute() bool {
	return ts.absolute
}

// IsZero reports whether the timestamp is unset
func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

// In returns the wall-clock time in loc, keeping the tag
func (ts Timestamp) In(loc *time.Location) Timestamp {
	return Timestamp{t: ts.t.In(loc), absolute: ts.absolute}
}

// AssumeLocation reinterprets the wall clock of a local value in loc.
// Absolute values are returned unchanged.
func (ts Timestamp) AssumeLocation(loc *time.Location) Timestamp {
	if ts.absolute || ts.IsZero() || loc == nil {
		return ts
	}
	t := ts.t
	return Local(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc))
}

// String renders local values without a zone and absolute values as RFC3339
func (ts Timestamp) String() string {
	if ts.absolute {
		return ts.t.Format(time.RFC3339)
	}
	return ts.t.Format(isoLocalLayout)
}

// MarshalJSON implements json.Marshaler
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler. Local values are read in time.Local.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return goerr.Wrap(ErrInvalidTimestamp, "timestamp must be a string")
	}

	parsed, err := ParseTimestamp(s, time.Local)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
