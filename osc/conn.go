package osc

import (
	"net"
	"syscall"
)

// packetConn is the server's UDP socket with a receive path that reports an
// empty queue as errWouldBlock instead of waiting.
type packetConn struct {
	*net.UDPConn
	raw syscall.RawConn
}

func newPacketConn(c *net.UDPConn) (*packetConn, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return nil, err
	}
	return &packetConn{UDPConn: c, raw: raw}, nil
}
