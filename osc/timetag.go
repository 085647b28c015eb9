package osc

import "time"

const secondsFrom1900To1970 = 2208988800

// TimetagImmediate is the special time tag value, 63 zero bits followed by a
// one in the least significant bit, meaning "immediately".
const TimetagImmediate = Timetag(1)

// Timetag represents an OSC Time Tag argument.
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second. This is the
// representation used by Internet NTP timestamps.
//
// Time tags are carried as plain argument values; nothing is scheduled on
// them.
type Timetag uint64

// NewTimetag returns the time tag for the given time.
func NewTimetag(t time.Time) Timetag {
	secs := uint64(secondsFrom1900To1970+t.Unix()) << 32
	frac := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return Timetag(secs + frac)
}

// SecondsSinceEpoch returns the first 32 bits, the number of seconds since
// midnight 1900.
func (tt Timetag) SecondsSinceEpoch() uint32 {
	return uint32(tt >> 32)
}

// FractionalSecond returns the last 32 bits of the time tag.
func (tt Timetag) FractionalSecond() uint32 {
	return uint32(tt)
}

// Time converts the time tag to a time.Time.
func (tt Timetag) Time() time.Time {
	secs := int64(tt.SecondsSinceEpoch()) - secondsFrom1900To1970
	nanos := (uint64(tt.FractionalSecond()) * uint64(time.Second)) >> 32
	return time.Unix(secs, int64(nanos))
}
