package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/showcontroller/oscpoll/osc"
	"github.com/spf13/cobra"
)

var (
	Root = &cobra.Command{
		Use:   "oscd",
		Short: "Non-blocking OSC server that answers on a fixed response port",
		Args:  cobra.NoArgs,
		Run:   startRoot,
	}
	rootFlags = struct {
		LogLevel   string
		ListenAddr string
		RemoteAddr string
		Tick       time.Duration
		MaxDrain   int
		Capture    string
	}{}
)

func init() {
	Root.PersistentFlags().StringVar(&rootFlags.LogLevel, "log-level", "info", "the log level to use")
	Root.Flags().StringVar(&rootFlags.ListenAddr, "listen", osc.DefaultListenAddr, "the UDP network address to listen on for OSC")
	Root.Flags().StringVar(&rootFlags.RemoteAddr, "remote", osc.DefaultRemoteAddr, "the default destination; its port is the response port")
	Root.Flags().DurationVar(&rootFlags.Tick, "tick", 10*time.Millisecond, "how often queued datagrams are processed")
	Root.Flags().IntVar(&rootFlags.MaxDrain, "max-drain", 0, "the maximum number of datagrams handled per tick (0 for no limit)")
	Root.Flags().StringVar(&rootFlags.Capture, "capture", "", "record every received datagram to this file")
}

func startRoot(cmd *cobra.Command, args []string) {
	logger := newLogger()

	opts := osc.ServerOptions{
		Logger:   logger,
		MaxDrain: rootFlags.MaxDrain,
	}
	if rootFlags.Capture != "" {
		f, err := os.Create(rootFlags.Capture)
		if err != nil {
			logErrorAndExit(logger, "Unable to create capture file", slog.Any("err", err))
			return
		}
		defer f.Close()

		logger.Info("Capturing datagrams", slog.String("file", rootFlags.Capture))
		opts.Capture = osc.NewCaptureWriter(f)
	}

	server, err := osc.NewServer(rootFlags.ListenAddr, rootFlags.RemoteAddr, opts)
	if err != nil {
		logErrorAndExit(logger, "Unable to start OSC server", slog.Any("err", err))
		return
	}
	defer server.Shutdown()

	b := &builtins{logger: logger}
	if err := b.register(server); err != nil {
		logErrorAndExit(logger, "Unable to register handlers", slog.Any("err", err))
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	reload := func() {
		server.ClearHandlers()
		if err := b.register(server); err != nil {
			logger.Error("Unable to reload handlers", slog.Any("err", err))
			return
		}
		logger.Info("Reloaded handlers", slog.Int("handlers", len(server.Addresses())))
	}

	ticker := time.NewTicker(rootFlags.Tick)
	defer ticker.Stop()

	var total int
	for {
		select {
		case <-ctx.Done():
			logger.Info("Bye!", slog.Int("datagrams", total))
			return
		case <-hup:
			reload()
		case <-ticker.C:
			total += server.Process()
			if b.takeReload() {
				reload()
			}
		}
	}
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(rootFlags.LogLevel)); err != nil {
		exitWithError(fmt.Sprintf("bad log level: %s", rootFlags.LogLevel))
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

func logErrorAndExit(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

func exitWithError(s string) {
	fmt.Fprintf(os.Stderr, "error: %s\n", s)
	os.Exit(1)
}
