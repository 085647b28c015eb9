//go:build unix

package osc

import (
	"net"

	"golang.org/x/sys/unix"
)

// recv reads one datagram straight from the socket's file descriptor. The
// runtime keeps the descriptor in non-blocking mode, and the read callback
// never asks the poller to wait, so an empty queue surfaces as EAGAIN.
func (c *packetConn) recv(buf []byte) (int, *net.UDPAddr, error) {
	var (
		n    int
		from unix.Sockaddr
		rerr error
	)
	err := c.raw.Read(func(fd uintptr) bool {
		for {
			n, from, rerr = unix.Recvfrom(int(fd), buf, unix.MSG_DONTWAIT)
			if rerr != unix.EINTR {
				return true
			}
		}
	})
	if err != nil {
		return 0, nil, err
	}
	if rerr == unix.EAGAIN || rerr == unix.EWOULDBLOCK {
		return 0, nil, errWouldBlock
	}
	if rerr != nil {
		return 0, nil, &net.OpError{Op: "read", Net: "udp", Addr: c.LocalAddr(), Err: rerr}
	}

	return n, sockaddrToUDP(from), nil
}

func sockaddrToUDP(sa unix.Sockaddr) *net.UDPAddr {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.UDPAddr{IP: net.IPv4(sa.Addr[0], sa.Addr[1], sa.Addr[2], sa.Addr[3]), Port: sa.Port}
	case *unix.SockaddrInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, sa.Addr[:])
		addr := &net.UDPAddr{IP: ip, Port: sa.Port}
		if sa.ZoneId != 0 {
			if ifi, err := net.InterfaceByIndex(int(sa.ZoneId)); err == nil {
				addr.Zone = ifi.Name
			}
		}
		return addr
	default:
		return &net.UDPAddr{}
	}
}
