package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/showcontroller/oscpoll/osc"
	"github.com/spf13/cobra"
)

var (
	replayCmd = &cobra.Command{
		Use:   "replay FILE",
		Short: "Send every message recorded in a capture file",
		Args:  cobra.ExactArgs(1),
		Run:   startReplay,
	}
	replayFlags = struct {
		To       string
		Listen   string
		Interval time.Duration
	}{}
)

func init() {
	replayCmd.Flags().StringVar(&replayFlags.To, "to", "127.0.0.1:11000", "the address to send the messages to")
	replayCmd.Flags().StringVar(&replayFlags.Listen, "listen", "0.0.0.0:0", "the local UDP address to send from")
	replayCmd.Flags().DurationVar(&replayFlags.Interval, "interval", 0, "the pause between two messages")
	Root.AddCommand(replayCmd)
}

func startReplay(cmd *cobra.Command, args []string) {
	logger := newLogger()

	f, err := os.Open(args[0])
	if err != nil {
		logErrorAndExit(logger, "Unable to open capture file", slog.Any("err", err))
		return
	}
	defer f.Close()

	server, err := osc.NewServer(replayFlags.Listen, replayFlags.To, osc.ServerOptions{Logger: logger})
	if err != nil {
		logErrorAndExit(logger, "Unable to open OSC socket", slog.Any("err", err))
		return
	}
	defer server.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sent, skipped, err := replay(ctx, osc.NewCaptureReader(f), server, replayFlags.Interval, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logErrorAndExit(logger, "Unable to read capture file", slog.Any("err", err))
		return
	}
	logger.Info("Replay finished", slog.Int("sent", sent), slog.Int("skipped", skipped))
}

// replay sends the recorded messages through s until the capture is
// exhausted. Datagrams that are not valid OSC messages are skipped.
func replay(ctx context.Context, r *osc.CaptureReader, s *osc.Server, interval time.Duration, logger *slog.Logger) (sent, skipped int, err error) {
	for {
		data, err := r.ReadDatagram()
		if errors.Is(err, io.EOF) {
			return sent, skipped, nil
		}
		if err != nil {
			return sent, skipped, err
		}

		msg, err := osc.ParseMessage(data)
		if err != nil {
			logger.Warn("Skipping recorded datagram", slog.Any("err", err))
			skipped++
			continue
		}

		if sent > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return sent, skipped, ctx.Err()
			case <-time.After(interval):
			}
		} else if err := ctx.Err(); err != nil {
			return sent, skipped, err
		}

		s.Send(msg.Address, msg.Arguments)
		sent++
	}
}
