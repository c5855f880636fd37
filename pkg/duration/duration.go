package duration

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration :
// A wrapper around the standard library duration to
// provide custom `JSON` marshalling: durations are
// exposed to clients as a number of seconds rather
// than nanoseconds, which is what the front-end
// countdowns expect for pending tasks.
// This element extends the behavior provided by the
// `time.Duration` object.
type Duration struct {
	time.Duration
}

// ErrInvalidInput :
// Indicates that the value provided as input cannot
// be unmarshalled into a valid duration.
var ErrInvalidInput = fmt.Errorf("could not unmarshal value to duration")

// NewDuration :
// Creates a new duration from a base time.Duration.
//
// The `t` defines the wrapped duration.
//
// Returns the created duration.
func NewDuration(t time.Duration) Duration {
	return Duration{
		t,
	}
}

// Until :
// Creates the duration separating the current time
// from the input instant. In case the instant lies
// in the past a zero duration is returned: this is
// used to report the remaining time of tasks which
// might already be due.
//
// The `t` defines the target instant.
//
// Returns the created duration.
func Until(t time.Time) Duration {
	d := time.Until(t)
	if d < 0 {
		d = 0
	}

	return Duration{
		d,
	}
}

// MarshalJSON :
// Implementation of the marshaller interface to be
// able to use this object out-of-the-box with the
// `encoding/json` package provided by the standard
// library. The duration is dumped as a (possibly
// fractional) number of seconds.
//
// Returns the marshalled bytes corresponding to this
// object along with any errors.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Seconds())
}

// UnmarshalJSON :
// Second facet of the marshaller interface which
// allows to extract the duration from raw bytes.
// Numbers are interpreted as seconds while strings
// use the standard duration syntax (e.g. "1m30s").
//
// The `b` defines the bytes to unmarshal.
//
// Returns any error.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return ErrInvalidInput
	}
}
