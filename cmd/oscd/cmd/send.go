package cmd

import (
	"log/slog"
	"time"

	"github.com/showcontroller/oscpoll/osc"
	"github.com/spf13/cobra"
)

var (
	sendCmd = &cobra.Command{
		Use:   "send ADDRESS [ARG...]",
		Short: "Send a single OSC message",
		Long: `Send a single OSC message and optionally wait for replies.

Arguments are typed with a prefix (i:1 h:1 f:1.5 d:1.5 s:text b:cafe) or one
of the bare tags T, F and N. Untyped integers are sent as int32, other numbers
as float32 and everything else as a string.

Replies go to the response port of the receiving server. To see them, listen
on that port with --listen and set --wait.`,
		Args: cobra.MinimumNArgs(1),
		Run:  startSend,
	}
	sendFlags = struct {
		To     string
		Listen string
		Wait   time.Duration
	}{}
)

func init() {
	sendCmd.Flags().StringVar(&sendFlags.To, "to", "127.0.0.1:11000", "the address to send the message to")
	sendCmd.Flags().StringVar(&sendFlags.Listen, "listen", "0.0.0.0:0", "the local UDP address to send from and receive replies on")
	sendCmd.Flags().DurationVar(&sendFlags.Wait, "wait", 0, "how long to wait for replies")
	Root.AddCommand(sendCmd)
}

func startSend(cmd *cobra.Command, args []string) {
	logger := newLogger()

	address := args[0]
	params, err := parseArgs(args[1:])
	if err != nil {
		logErrorAndExit(logger, "Bad message arguments", slog.Any("err", err))
		return
	}

	server, err := osc.NewServer(sendFlags.Listen, sendFlags.To, osc.ServerOptions{Logger: logger})
	if err != nil {
		logErrorAndExit(logger, "Unable to open OSC socket", slog.Any("err", err))
		return
	}
	defer server.Shutdown()

	var replies int
	if err := server.Handle(address, func(params []any) ([]any, error) {
		replies++
		logger.Info("Received reply", slog.String("message", osc.NewMessage(address, params...).String()))
		return nil, nil
	}); err != nil {
		logErrorAndExit(logger, "Unable to register reply handler", slog.Any("err", err))
		return
	}

	server.Send(address, params)
	logger.Debug("Sent message",
		slog.String("message", osc.NewMessage(address, params...).String()),
		slog.String("to", sendFlags.To))

	if sendFlags.Wait <= 0 {
		return
	}

	deadline := time.Now().Add(sendFlags.Wait)
	for time.Now().Before(deadline) {
		server.Process()
		time.Sleep(10 * time.Millisecond)
	}
	logger.Info("Done waiting", slog.Int("replies", replies))
}
