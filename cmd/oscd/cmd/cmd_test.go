package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/showcontroller/oscpoll/osc"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseArgs(t *testing.T) {
	for _, tt := range []struct {
		desc  string
		words []string
		want  []any
		ok    bool
	}{
		{"none", nil, []any{}, true},
		{"typed", []string{"i:1", "h:2", "f:1.5", "d:2.5", "s:12", "b:cafe"},
			[]any{int32(1), int64(2), float32(1.5), float64(2.5), "12", []byte{0xca, 0xfe}}, true},
		{"tags", []string{"T", "F", "N"}, []any{true, false, nil}, true},
		{"untyped", []string{"7", "0.5", "hello", "x:y"}, []any{int32(7), float32(0.5), "hello", "x:y"}, true},
		{"hex_int", []string{"i:0x10"}, []any{int32(16)}, true},
		{"bad_int", []string{"i:one"}, nil, false},
		{"int_overflow", []string{"i:4294967296"}, nil, false},
		{"bad_blob", []string{"b:xyz"}, nil, false},
	} {
		got, err := parseArgs(tt.words)
		if err != nil && tt.ok {
			t.Errorf("%s: parseArgs() unexpected error: %s", tt.desc, err)
			continue
		}
		if err == nil && !tt.ok {
			t.Errorf("%s: parseArgs() expected an error", tt.desc)
			continue
		}
		if !tt.ok {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: parseArgs() = %#v, want = %#v", tt.desc, got, tt.want)
		}
	}
}

func TestParseBindings(t *testing.T) {
	bindings, err := parseBindings([]string{"1=/ping", "2=/echo i:1 s:hello"})
	if err != nil {
		t.Fatal(err)
	}
	if want := osc.NewMessage("/ping"); !bindings['1'].Equals(want) {
		t.Errorf("binding '1' = '%s', want = '%s'", bindings['1'], want)
	}
	if want := osc.NewMessage("/echo", int32(1), "hello"); !bindings['2'].Equals(want) {
		t.Errorf("binding '2' = '%s', want = '%s'", bindings['2'], want)
	}

	for _, def := range []string{"/ping", "12=/ping", "1=", "1=ping", "1=/a i:x"} {
		if _, err := parseBindings([]string{def}); err == nil {
			t.Errorf("parseBindings(%q) expected an error", def)
		}
	}
}

func TestBuiltins(t *testing.T) {
	b := &builtins{logger: discard}

	for _, tt := range []struct {
		address string
		params  []any
		want    []any
	}{
		{"/ping", nil, []any{"pong"}},
		{"/echo", nil, []any{}},
		{"/echo", []any{int32(1), "a"}, []any{int32(1), "a"}},
		{"/oscd/handlers", nil, []any{"/echo", "/oscd/handlers", "/oscd/reload", "/ping"}},
		{"/oscd/reload", nil, nil},
	} {
		got, err := b.handlers()[tt.address](tt.params)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", tt.address, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: reply = %#v, want = %#v", tt.address, got, tt.want)
		}
	}

	if !b.takeReload() {
		t.Error("takeReload() = false after /oscd/reload, want true")
	}
	if b.takeReload() {
		t.Error("takeReload() = true twice, want false")
	}
}

func TestReplay(t *testing.T) {
	target, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer target.Close()

	server, err := osc.NewServer("127.0.0.1:0", target.LocalAddr().String(), osc.ServerOptions{Logger: discard})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Shutdown()

	want := []*osc.Message{
		osc.NewMessage("/a", int32(1)),
		osc.NewMessage("/b", "two"),
	}

	capture := new(bytes.Buffer)
	w := osc.NewCaptureWriter(capture)
	for i, msg := range want {
		data, err := msg.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		if err := w.WriteDatagram(data); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			if err := w.WriteDatagram([]byte("not osc")); err != nil {
				t.Fatal(err)
			}
		}
	}

	sent, skipped, err := replay(context.Background(), osc.NewCaptureReader(capture), server, 0, discard)
	if err != nil {
		t.Fatalf("replay() unexpected error: %s", err)
	}
	if sent != 2 || skipped != 1 {
		t.Errorf("replay() sent %d and skipped %d, want 2 and 1", sent, skipped)
	}

	buf := make([]byte, 65536)
	for _, w := range want {
		target.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := target.ReadFromUDP(buf)
		if err != nil {
			t.Fatal(err)
		}
		got, err := osc.ParseMessage(buf[:n])
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equals(w) {
			t.Errorf("received = '%s', want = '%s'", got, w)
		}
	}
}

func TestReplayCanceled(t *testing.T) {
	server, err := osc.NewServer("127.0.0.1:0", "127.0.0.1:9", osc.ServerOptions{Logger: discard})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Shutdown()

	capture := new(bytes.Buffer)
	w := osc.NewCaptureWriter(capture)
	data, _ := osc.NewMessage("/a").MarshalBinary()
	w.WriteDatagram(data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, _, err := replay(ctx, osc.NewCaptureReader(capture), server, time.Second, discard)
	if err != context.Canceled {
		t.Errorf("replay() error = %v, want = %v", err, context.Canceled)
	}
	if sent != 0 {
		t.Errorf("replay() sent %d, want 0", sent)
	}
}
