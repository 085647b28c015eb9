package osc

import (
	"errors"
	"testing"
	"time"
)

func TestAppend(t *testing.T) {
	oscAddress := "/address"
	message := NewMessage(oscAddress)
	if message.Address != oscAddress {
		t.Errorf("OSC address should be \"%s\" and is \"%s\"", oscAddress, message.Address)
	}

	message.Append("string argument")
	message.Append(int32(123456789))
	message.Append(true)

	if message.CountArguments() != 3 {
		t.Errorf("Number of arguments should be %d and is %d", 3, message.CountArguments())
	}
}

func TestEquals(t *testing.T) {
	msg1 := NewMessage("/address", int32(1234), "test string", []byte{1, 2, 3})
	msg2 := NewMessage("/address", int32(1234), "test string", []byte{1, 2, 3})
	if !msg1.Equals(msg2) {
		t.Error("Messages should be equal")
	}

	msg2.Arguments[2] = []byte{1, 2}
	if msg1.Equals(msg2) {
		t.Error("Messages with different blobs should not be equal")
	}
	if msg1.Equals(NewMessage("/other", int32(1234), "test string", []byte{1, 2, 3})) {
		t.Error("Messages with different addresses should not be equal")
	}
}

func TestTypeTags(t *testing.T) {
	for _, tt := range []struct {
		desc string
		msg  *Message
		tags string
		ok   bool
	}{
		{"addr_only", NewMessage("/"), ",", true},
		{"nil", NewMessage("/", nil), ",N", true},
		{"bool_true", NewMessage("/", true), ",T", true},
		{"bool_false", NewMessage("/", false), ",F", true},
		{"int32", NewMessage("/", int32(1)), ",i", true},
		{"int64", NewMessage("/", int64(2)), ",h", true},
		{"float32", NewMessage("/", float32(3.0)), ",f", true},
		{"float64", NewMessage("/", float64(4.0)), ",d", true},
		{"string", NewMessage("/", "5"), ",s", true},
		{"[]byte", NewMessage("/", []byte{'6'}), ",b", true},
		{"timetag", NewMessage("/", TimetagImmediate), ",t", true},
		{"two_args", NewMessage("/", "123", int32(456)), ",si", true},
		{"invalid_msg", nil, "", false},
		{"invalid_arg", NewMessage("/foo/bar", 789), "", false},
	} {
		tags, err := tt.msg.TypeTags()
		if err != nil && tt.ok {
			t.Errorf("%s: TypeTags() unexpected error: %s", tt.desc, err)
			continue
		}
		if err == nil && !tt.ok {
			t.Errorf("%s: TypeTags() expected an error", tt.desc)
			continue
		}
		if !tt.ok {
			continue
		}
		if got, want := tags, tt.tags; got != want {
			t.Errorf("%s: TypeTags() = '%s', want = '%s'", tt.desc, got, want)
		}
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct {
		desc string
		msg  *Message
		str  string
	}{
		{"nil", nil, ""},
		{"addr_only", NewMessage("/foo/bar"), "/foo/bar ,"},
		{"one_addr", NewMessage("/foo/bar", "123"), "/foo/bar ,s 123"},
		{"two_args", NewMessage("/foo/bar", "123", int32(456)), "/foo/bar ,si 123 456"},
		{"nil_and_blob", NewMessage("/foo", nil, []byte{1, 2}), "/foo ,Nb Nil blob(2)"},
		{"unsupported", NewMessage("/foo", struct{}{}), ""},
	} {
		if got, want := tt.msg.String(), tt.str; got != want {
			t.Errorf("%s: String() = '%s', want = '%s'", tt.desc, got, want)
		}
	}
}

func TestMarshalBinary(t *testing.T) {
	for _, tt := range []struct {
		desc string
		msg  *Message
		want string
	}{
		{"no_args", NewMessage("/ping"), "/ping" + nulls(3) + "," + nulls(3)},
		{"int32", NewMessage("/a", int32(1)), "/a" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x01"},
		{"string", NewMessage("/a", "pong"), "/a" + nulls(2) + ",s" + nulls(2) + "pong" + nulls(4)},
		{"aligned_blob", NewMessage("/a", []byte{1, 2, 3, 4}), "/a" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x04\x01\x02\x03\x04"},
		{"short_blob", NewMessage("/a", []byte{9}), "/a" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x01\x09" + nulls(3)},
		{"bools_nil", NewMessage("/a", true, false, nil), "/a" + nulls(2) + ",TFN" + nulls(4)},
	} {
		b, err := tt.msg.MarshalBinary()
		if err != nil {
			t.Errorf("%s: MarshalBinary() unexpected error: %s", tt.desc, err)
			continue
		}
		if got, want := string(b), tt.want; got != want {
			t.Errorf("%s: MarshalBinary() = %q, want = %q", tt.desc, got, want)
		}
		if len(b)%4 != 0 {
			t.Errorf("%s: MarshalBinary() length %d is not a multiple of 4", tt.desc, len(b))
		}
	}
}

func TestMarshalBinaryUnsupportedType(t *testing.T) {
	_, err := NewMessage("/a", int32(1), 2).MarshalBinary()
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("MarshalBinary() error = %v, want *BuildError", err)
	}
	if got, want := buildErr.Index, 1; got != want {
		t.Errorf("BuildError.Index = %d, want = %d", got, want)
	}
	if got, want := buildErr.Address, "/a"; got != want {
		t.Errorf("BuildError.Address = %s, want = %s", got, want)
	}
}

func TestTimetag(t *testing.T) {
	now := time.Unix(1700000000, 500000000)
	tt := NewTimetag(now)

	if got, want := int64(tt.SecondsSinceEpoch()), now.Unix()+secondsFrom1900To1970; got != want {
		t.Errorf("SecondsSinceEpoch() = %d, want = %d", got, want)
	}
	if got, want := tt.FractionalSecond(), uint32(1<<31); got != want {
		t.Errorf("FractionalSecond() = %d, want = %d", got, want)
	}
	if d := tt.Time().Sub(now); d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("Time() = %s, want = %s", tt.Time(), now)
	}
}
