package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address and zero or more arguments.
type Message struct {
	Address   string
	Arguments []any
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(address string, args ...any) *Message {
	return &Message{Address: address, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (msg *Message) Append(args ...any) {
	msg.Arguments = append(msg.Arguments, args...)
}

// Equals returns true if the given OSC Message b is equal to the current OSC
// Message. Addresses and arguments must match exactly; blobs are compared by
// content.
func (msg *Message) Equals(b *Message) bool {
	if msg == nil || b == nil {
		return msg == b
	}
	if msg.Address != b.Address {
		return false
	}
	if msg.CountArguments() != b.CountArguments() {
		return false
	}

	for i, arg := range msg.Arguments {
		switch t := arg.(type) {
		case []byte:
			bb, ok := b.Arguments[i].([]byte)
			if !ok || !bytes.Equal(t, bb) {
				return false
			}
		default:
			if arg != b.Arguments[i] {
				return false
			}
		}
	}

	return true
}

// CountArguments returns the number of arguments.
func (msg *Message) CountArguments() int {
	return len(msg.Arguments)
}

// TypeTags returns the type tag string.
func (msg *Message) TypeTags() (string, error) {
	if msg == nil {
		return "", fmt.Errorf("message is nil")
	}

	tags := []byte{','}
	for i, arg := range msg.Arguments {
		tag, err := typeTag(arg)
		if err != nil {
			return "", &BuildError{Address: msg.Address, Index: i, Value: arg}
		}
		tags = append(tags, tag)
	}

	return string(tags), nil
}

// String implements the fmt.Stringer interface.
func (msg *Message) String() string {
	if msg == nil {
		return ""
	}

	tags, err := msg.TypeTags()
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString(msg.Address)
	buf.WriteByte(' ')
	buf.WriteString(tags)

	for _, arg := range msg.Arguments {
		switch t := arg.(type) {
		case nil:
			buf.WriteString(" Nil")
		case []byte:
			fmt.Fprintf(&buf, " blob(%d)", len(t))
		case Timetag:
			fmt.Fprintf(&buf, " %d", uint64(t))
		default:
			fmt.Fprintf(&buf, " %v", t)
		}
	}

	return buf.String()
}

// MarshalBinary serializes the OSC message to a byte buffer. The byte buffer
// has the following format:
// 1. OSC Address
// 2. OSC Type Tag String
// 3. OSC Arguments
//
// An argument of a type OSC cannot represent results in a *BuildError.
func (msg *Message) MarshalBinary() ([]byte, error) {
	data := new(bytes.Buffer)
	if _, err := writePaddedString(msg.Address, data); err != nil {
		return nil, err
	}

	typetags := []byte{','}

	// Process the type tags and collect all arguments
	payload := new(bytes.Buffer)
	for i, arg := range msg.Arguments {
		tag, err := typeTag(arg)
		if err != nil {
			return nil, &BuildError{Address: msg.Address, Index: i, Value: arg}
		}
		typetags = append(typetags, tag)

		switch t := arg.(type) {
		case int32, int64, float32, float64:
			err = binary.Write(payload, binary.BigEndian, t)
		case Timetag:
			err = binary.Write(payload, binary.BigEndian, uint64(t))
		case string:
			_, err = writePaddedString(t, payload)
		case []byte:
			_, err = writeBlob(t, payload)
		}
		if err != nil {
			return nil, err
		}
	}

	if _, err := writePaddedString(string(typetags), data); err != nil {
		return nil, err
	}
	if _, err := data.Write(payload.Bytes()); err != nil {
		return nil, err
	}

	return data.Bytes(), nil
}

// typeTag returns the OSC type tag for the given argument.
func typeTag(arg any) (byte, error) {
	switch t := arg.(type) {
	case nil:
		return 'N', nil
	case bool:
		if t {
			return 'T', nil
		}
		return 'F', nil
	case int32:
		return 'i', nil
	case int64:
		return 'h', nil
	case float32:
		return 'f', nil
	case float64:
		return 'd', nil
	case string:
		return 's', nil
	case []byte:
		return 'b', nil
	case Timetag:
		return 't', nil
	default:
		return 0, fmt.Errorf("unsupported type: %T", t)
	}
}
