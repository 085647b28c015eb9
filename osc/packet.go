package osc

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

const bundleTag = "#bundle"

// ParseMessage decodes one OSC message from a datagram. Every failure is
// reported as a *ParseError. Bundles are not supported.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, &ParseError{Reason: "empty packet"}
	}
	if data[0] == '#' {
		return nil, &ParseError{Reason: "bundles are not supported"}
	}
	// An OSC Message starts with a '/'
	if data[0] != '/' {
		return nil, &ParseError{Reason: "address must start with '/'"}
	}

	r := &packetReader{data: data}
	addr, err := r.readPaddedString()
	if err != nil {
		return nil, err
	}

	msg := NewMessage(addr)
	if err := r.readArguments(msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// packetReader reads OSC primitives from a datagram and tracks the offset
// for error reporting.
type packetReader struct {
	data []byte
	off  int
}

func (r *packetReader) fail(reason string, err error) *ParseError {
	return &ParseError{Offset: r.off, Reason: reason, Err: err}
}

func (r *packetReader) remaining() int { return len(r.data) - r.off }

// next returns the next n bytes of the datagram.
func (r *packetReader) next(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, r.fail("truncated packet", io.ErrUnexpectedEOF)
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// readArguments reads the type tag string and all arguments and adds them to
// the OSC message. A message without a type tag string has no arguments.
func (r *packetReader) readArguments(msg *Message) error {
	if r.remaining() == 0 {
		return nil
	}

	typetags, err := r.readPaddedString()
	if err != nil {
		return err
	}

	// If the typetag doesn't start with ',', it's not valid
	if len(typetags) == 0 || typetags[0] != ',' {
		return r.fail("unsupported type tag string", nil)
	}

	for _, c := range typetags[1:] {
		switch c {
		default:
			return r.fail("unsupported type tag '"+string(c)+"'", nil)

		case 'i': // int32
			b, err := r.next(4)
			if err != nil {
				return err
			}
			msg.Append(int32(binary.BigEndian.Uint32(b)))

		case 'h': // int64
			b, err := r.next(8)
			if err != nil {
				return err
			}
			msg.Append(int64(binary.BigEndian.Uint64(b)))

		case 'f': // float32
			b, err := r.next(4)
			if err != nil {
				return err
			}
			msg.Append(math.Float32frombits(binary.BigEndian.Uint32(b)))

		case 'd': // float64/double
			b, err := r.next(8)
			if err != nil {
				return err
			}
			msg.Append(math.Float64frombits(binary.BigEndian.Uint64(b)))

		case 's': // string
			s, err := r.readPaddedString()
			if err != nil {
				return err
			}
			msg.Append(s)

		case 'b': // blob
			blob, err := r.readBlob()
			if err != nil {
				return err
			}
			msg.Append(blob)

		case 't': // OSC time tag
			b, err := r.next(8)
			if err != nil {
				return err
			}
			msg.Append(Timetag(binary.BigEndian.Uint64(b)))

		case 'T':
			msg.Append(true)
		case 'F':
			msg.Append(false)
		case 'N':
			msg.Append(nil)
		}
	}

	return nil
}

// readPaddedString reads a NUL terminated, 4-byte aligned string. The padding
// bytes are consumed.
func (r *packetReader) readPaddedString() (string, error) {
	i := bytes.IndexByte(r.data[r.off:], 0)
	if i < 0 {
		return "", r.fail("unterminated string", io.ErrUnexpectedEOF)
	}
	str := string(r.data[r.off : r.off+i])

	if _, err := r.next(len(str) + padBytesNeeded(len(str))); err != nil {
		return "", err
	}
	return str, nil
}

// readBlob reads an OSC blob. Padding bytes are consumed and not returned.
func (r *packetReader) readBlob() ([]byte, error) {
	b, err := r.next(4)
	if err != nil {
		return nil, err
	}
	n := int(int32(binary.BigEndian.Uint32(b)))
	if n < 0 {
		return nil, r.fail("negative blob size", nil)
	}

	data, err := r.next(n)
	if err != nil {
		return nil, err
	}
	if _, err := r.next(blobPadBytesNeeded(n)); err != nil {
		return nil, err
	}

	blob := make([]byte, n)
	copy(blob, data)
	return blob, nil
}

// writeBlob writes the data byte array as an OSC blob into buf. If the length
// of data isn't 32-bit aligned, padding bytes will be added.
func writeBlob(data []byte, buf *bytes.Buffer) (int, error) {
	if err := binary.Write(buf, binary.BigEndian, int32(len(data))); err != nil {
		return 0, err
	}
	if _, err := buf.Write(data); err != nil {
		return 0, err
	}

	numPadBytes := blobPadBytesNeeded(len(data))
	if numPadBytes > 0 {
		if _, err := buf.Write(make([]byte, numPadBytes)); err != nil {
			return 0, err
		}
	}

	return 4 + len(data) + numPadBytes, nil
}

// writePaddedString writes a string with padding bytes to the a buffer.
// Returns, the number of written bytes and an error if any.
func writePaddedString(str string, buf *bytes.Buffer) (int, error) {
	n, err := buf.WriteString(str)
	if err != nil {
		return 0, err
	}

	// There is always at least one NUL terminator.
	numPadBytes := padBytesNeeded(len(str))
	if _, err := buf.Write(make([]byte, numPadBytes)); err != nil {
		return 0, err
	}

	return n + numPadBytes, nil
}

// padBytesNeeded determines how many NUL bytes a string of the given length
// needs to be terminated and filled up to the next 4 byte length.
func padBytesNeeded(elementLen int) int {
	return 4*(elementLen/4+1) - elementLen
}

// blobPadBytesNeeded determines how many bytes are needed to fill a blob of
// the given length up to the next 4 byte length.
func blobPadBytesNeeded(elementLen int) int {
	return (4 - elementLen%4) % 4
}
