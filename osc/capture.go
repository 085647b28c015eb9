package osc

import (
	"errors"
	"io"

	"github.com/Lobaro/slip"
)

// CaptureWriter records raw datagrams as SLIP framed packets, the stream
// framing OSC 1.1 uses for stream transports.
type CaptureWriter struct {
	w *slip.Writer
}

// NewCaptureWriter returns a CaptureWriter writing to w.
func NewCaptureWriter(w io.Writer) *CaptureWriter {
	return &CaptureWriter{w: slip.NewWriter(w)}
}

// WriteDatagram appends one datagram to the capture.
func (c *CaptureWriter) WriteDatagram(data []byte) error {
	return c.w.WritePacket(data)
}

// CaptureReader reads datagrams recorded by a CaptureWriter.
type CaptureReader struct {
	r *slip.Reader
}

// NewCaptureReader returns a CaptureReader reading from r.
func NewCaptureReader(r io.Reader) *CaptureReader {
	return &CaptureReader{r: slip.NewReader(r)}
}

// ReadDatagram returns the next recorded datagram, or io.EOF once the capture
// is exhausted. Empty frames are skipped.
func (c *CaptureReader) ReadDatagram() ([]byte, error) {
	var datagram []byte
	for {
		p, isPrefix, err := c.r.ReadPacket()
		// p is only valid until the next read.
		datagram = append(datagram, p...)
		if err != nil {
			if errors.Is(err, io.EOF) && len(datagram) > 0 {
				return datagram, nil
			}
			return nil, err
		}
		if !isPrefix && len(datagram) > 0 {
			return datagram, nil
		}
	}
}
