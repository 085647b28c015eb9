package cmd

import (
	"log/slog"
	"slices"

	"github.com/showcontroller/oscpoll/osc"
	"golang.org/x/exp/maps"
)

// builtins are the handlers oscd serves. A reload request is only recorded
// here; the tick loop performs it once the current drain pass is over.
type builtins struct {
	logger          *slog.Logger
	reloadRequested bool
}

func (b *builtins) handlers() map[string]osc.HandlerFunc {
	return map[string]osc.HandlerFunc{
		"/ping":          b.ping,
		"/echo":          b.echo,
		"/oscd/handlers": b.list,
		"/oscd/reload":   b.reload,
	}
}

func (b *builtins) register(s *osc.Server) error {
	for addr, h := range b.handlers() {
		if err := s.Handle(addr, h); err != nil {
			return err
		}
	}
	return nil
}

// takeReload reports whether a reload was requested and clears the request.
func (b *builtins) takeReload() bool {
	r := b.reloadRequested
	b.reloadRequested = false
	return r
}

func (b *builtins) ping(params []any) ([]any, error) {
	return []any{"pong"}, nil
}

func (b *builtins) echo(params []any) ([]any, error) {
	if params == nil {
		params = []any{}
	}
	return params, nil
}

func (b *builtins) list(params []any) ([]any, error) {
	addrs := maps.Keys(b.handlers())
	slices.Sort(addrs)

	reply := make([]any, len(addrs))
	for i, addr := range addrs {
		reply[i] = addr
	}
	return reply, nil
}

func (b *builtins) reload(params []any) ([]any, error) {
	b.logger.Info("Handler reload requested")
	b.reloadRequested = true
	return nil, nil
}
