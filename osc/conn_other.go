//go:build !unix

package osc

import (
	"errors"
	"net"
	"os"
	"time"
)

// pollTimeout bounds how long a receive waits on platforms without a raw
// non-blocking read.
const pollTimeout = time.Millisecond

func (c *packetConn) recv(buf []byte) (int, *net.UDPAddr, error) {
	if err := c.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return 0, nil, err
	}
	n, addr, err := c.ReadFromUDP(buf)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return 0, nil, errWouldBlock
	}
	return n, addr, err
}
