package osc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
)

const (
	// DefaultListenAddr is the address the server binds to by default.
	DefaultListenAddr = "0.0.0.0:11000"
	// DefaultRemoteAddr is the default destination. Its port is the response
	// port.
	DefaultRemoteAddr = "127.0.0.1:11001"

	maxDatagramSize = 65536
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// Logger receives all server events. Defaults to slog.Default().
	Logger *slog.Logger
	// MaxDrain caps the number of datagrams handled by a single Process call.
	// Zero drains until the socket is empty.
	MaxDrain int
	// Capture, if set, records every received datagram before it is decoded.
	Capture *CaptureWriter
}

// Server is a non-blocking OSC server and client on a single UDP socket. It
// has no goroutines of its own: the caller drives it by calling Process
// regularly. A Server must only be used from one goroutine at a time.
type Server struct {
	conn         *packetConn
	remote       *net.UDPAddr
	responsePort int

	opts     ServerOptions
	logger   *slog.Logger
	handlers registry
	buf      []byte
}

// NewServer binds a UDP socket on localAddr. Messages sent without an explicit
// destination go to remoteAddr, and replies to inbound messages go to the
// sender's host on remoteAddr's port. Failing to bind returns a *BindError.
func NewServer(localAddr, remoteAddr string, opts ServerOptions) (*Server, error) {
	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, &BindError{Addr: localAddr, Err: err}
	}

	raddr, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return nil, fmt.Errorf("osc: resolve remote address %s: %w", remoteAddr, err)
	}

	udpConn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, &BindError{Addr: localAddr, Err: err}
	}

	conn, err := newPacketConn(udpConn)
	if err != nil {
		udpConn.Close()
		return nil, &BindError{Addr: localAddr, Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		conn:         conn,
		remote:       raddr,
		responsePort: raddr.Port,
		opts:         opts,
		logger:       logger,
		handlers:     make(registry),
		buf:          make([]byte, maxDatagramSize),
	}

	s.logger.Info("Starting OSC server",
		slog.String("local", conn.LocalAddr().String()),
		slog.Int("response_port", s.responsePort))

	return s, nil
}

// LocalAddr returns the address the socket is bound to.
func (s *Server) LocalAddr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// RemoteAddr returns the default destination address.
func (s *Server) RemoteAddr() *net.UDPAddr { return s.remote }

// ResponsePort returns the port replies are sent to.
func (s *Server) ResponsePort() int { return s.responsePort }

// Send sends an OSC message to the default remote address.
func (s *Server) Send(address string, params []any) {
	s.SendTo(address, params, s.remote)
}

// SendTo sends an OSC message to dst. Failures are logged and never returned:
// a message that cannot be encoded is not sent at all.
func (s *Server) SendTo(address string, params []any, dst *net.UDPAddr) {
	if dst == nil {
		dst = s.remote
	}

	data, err := NewMessage(address, params...).MarshalBinary()
	if err != nil {
		s.logger.Error("Unable to build OSC message",
			slog.String("address", address),
			slog.Any("err", err))
		return
	}

	if _, err := s.conn.WriteToUDP(data, dst); err != nil {
		s.logger.Error("Unable to send OSC message",
			slog.String("address", address),
			slog.String("addr", dst.String()),
			slog.Any("err", err))
	}
}

// Process synchronously handles every datagram queued on the socket and
// returns the number of datagrams received. It never blocks and never fails:
// malformed datagrams, unknown addresses and handler failures are logged and
// skipped, and a socket error ends the current pass.
func (s *Server) Process() int {
	var n int
	for s.opts.MaxDrain <= 0 || n < s.opts.MaxDrain {
		size, src, err := s.conn.recv(s.buf)
		if err != nil {
			if !errors.Is(err, errWouldBlock) {
				s.logger.Error("Socket error", slog.Any("err", err))
			}
			return n
		}
		n++

		data := s.buf[:size]
		if s.opts.Capture != nil {
			if err := s.opts.Capture.WriteDatagram(data); err != nil {
				s.logger.Error("Unable to capture datagram", slog.Any("err", err))
			}
		}

		if err := s.dispatch(data, src); err != nil {
			s.logDispatchError(err, src)
		}
	}
	return n
}

// dispatch decodes a single datagram, invokes its handler and sends the
// reply, if any.
func (s *Server) dispatch(data []byte, src *net.UDPAddr) error {
	msg, err := ParseMessage(data)
	if err != nil {
		return err
	}

	handler, ok := s.handlers[msg.Address]
	if !ok {
		return &UnknownAddressError{Address: msg.Address}
	}

	reply, err := invoke(handler, msg.Arguments)
	if err != nil {
		return &HandlerError{Address: msg.Address, Err: err}
	}

	if reply != nil {
		s.SendTo(msg.Address, reply, s.replyAddr(src))
	}
	return nil
}

// invoke calls the handler, turning a panic into an error.
func invoke(handler Handler, params []any) (reply []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return handler.HandleMessage(params)
}

// replyAddr returns the destination for a reply to a datagram from src: the
// sender's host on the configured response port, never the source port.
func (s *Server) replyAddr(src *net.UDPAddr) *net.UDPAddr {
	return &net.UDPAddr{IP: src.IP, Port: s.responsePort, Zone: src.Zone}
}

func (s *Server) logDispatchError(err error, src *net.UDPAddr) {
	var (
		parseErr   *ParseError
		unknownErr *UnknownAddressError
		handlerErr *HandlerError
	)
	switch {
	case errors.As(err, &unknownErr):
		s.logger.Info("Unknown OSC address",
			slog.String("address", unknownErr.Address),
			slog.String("addr", src.String()))
	case errors.As(err, &parseErr):
		s.logger.Warn("Unable to parse OSC message",
			slog.String("addr", src.String()),
			slog.Any("err", err))
	case errors.As(err, &handlerErr):
		s.logger.Error("Unable to handle OSC message",
			slog.String("address", handlerErr.Address),
			slog.String("addr", src.String()),
			slog.Any("err", handlerErr.Err))
	default:
		s.logger.Error("Unable to dispatch OSC message",
			slog.String("addr", src.String()),
			slog.Any("err", err))
	}
}

// Shutdown closes the socket. The server must not be used afterwards.
func (s *Server) Shutdown() error {
	s.logger.Info("Stopping OSC server", slog.String("local", s.conn.LocalAddr().String()))
	return s.conn.Close()
}
