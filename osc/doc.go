// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>

/*
Package osc provides a non-blocking server for sending and receiving
OpenSoundControl messages over a single UDP socket.

The implementation is based on the Open Sound Control 1.0 Specification
(http://opensoundcontrol.org/spec-1_0).

Messages are decoded with ParseMessage and encoded with Message.MarshalBinary.
The following argument types are supported: 'i' (int32), 'f' (float32),
's' (string), 'b' (blob / []byte), 'h' (int64), 't' (Timetag),
'd' (float64), 'T' (true), 'F' (false), 'N' (nil). Bundles are not supported.

The Server owns no goroutines. The embedding application calls Process from
its own update loop; Process reads every datagram queued on the socket,
dispatches each one to the handler registered for its exact address and
returns as soon as the socket is empty. A handler that returns a non-nil
result gets it sent back to the sender's host on the server's response port,
which is the port of the remote address given to NewServer. The sender's
source port is ignored.

Nothing that goes wrong while processing a datagram stops the loop: parse
errors, unknown addresses and failing handlers are logged and the next
datagram is processed.

Usage

	server, err := osc.NewServer("0.0.0.0:11000", "127.0.0.1:11001", osc.ServerOptions{})
	if err != nil {
	    log.Fatal(err)
	}
	defer server.Shutdown()

	server.Handle("/ping", func(params []any) ([]any, error) {
	    return []any{"pong"}, nil
	})

	for range time.Tick(10 * time.Millisecond) {
	    server.Process()
	}
*/
package osc
