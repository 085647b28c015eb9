package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eiannone/keyboard"
	"github.com/showcontroller/oscpoll/osc"
	"github.com/spf13/cobra"
)

var (
	consoleCmd = &cobra.Command{
		Use:   "console",
		Short: "Send OSC messages bound to keys and show the replies",
		Long: `Send OSC messages bound to keys and show the replies.

Bindings take the form KEY=ADDRESS [ARG...], for example
--key "1=/ping" --key "2=/echo i:1 s:hello". Press ESC to quit.`,
		Args: cobra.NoArgs,
		Run:  startConsole,
	}
	consoleFlags = struct {
		To     string
		Listen string
		Tick   time.Duration
		Keys   []string
	}{}
)

func init() {
	consoleCmd.Flags().StringVar(&consoleFlags.To, "to", "127.0.0.1:11000", "the address to send messages to")
	consoleCmd.Flags().StringVar(&consoleFlags.Listen, "listen", "0.0.0.0:11001", "the local UDP address to send from and receive replies on")
	consoleCmd.Flags().DurationVar(&consoleFlags.Tick, "tick", 10*time.Millisecond, "how often replies are processed")
	consoleCmd.Flags().StringArrayVar(&consoleFlags.Keys, "key", []string{"1=/ping"}, "a key binding, KEY=ADDRESS [ARG...]")
	Root.AddCommand(consoleCmd)
}

type keyPress struct {
	char rune
	key  keyboard.Key
	err  error
}

func startConsole(cmd *cobra.Command, args []string) {
	logger := newLogger()

	bindings, err := parseBindings(consoleFlags.Keys)
	if err != nil {
		logErrorAndExit(logger, "Bad key binding", slog.Any("err", err))
		return
	}

	server, err := osc.NewServer(consoleFlags.Listen, consoleFlags.To, osc.ServerOptions{Logger: logger})
	if err != nil {
		logErrorAndExit(logger, "Unable to open OSC socket", slog.Any("err", err))
		return
	}
	defer server.Shutdown()

	for _, msg := range bindings {
		address := msg.Address
		server.Handle(address, func(params []any) ([]any, error) {
			logger.Info("Received reply", slog.String("message", osc.NewMessage(address, params...).String()))
			return nil, nil
		})
	}

	if err := keyboard.Open(); err != nil {
		logErrorAndExit(logger, "Unable to open keyboard", slog.Any("err", err))
		return
	}
	defer keyboard.Close()

	presses := make(chan keyPress)
	go func() {
		for {
			char, key, err := keyboard.GetKey()
			presses <- keyPress{char: char, key: key, err: err}
			if err != nil {
				return
			}
		}
	}()

	fmt.Print("Press ESC to quit\r\n")
	for char, msg := range bindings {
		fmt.Printf("  %c  %s\r\n", char, msg)
	}

	ticker := time.NewTicker(consoleFlags.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			server.Process()
		case p := <-presses:
			if p.err != nil {
				logger.Error("Unable to read key", slog.Any("err", p.err))
				return
			}
			if p.key == keyboard.KeyEsc || p.key == keyboard.KeyCtrlC {
				return
			}
			if msg, ok := bindings[p.char]; ok {
				server.Send(msg.Address, msg.Arguments)
			}
		}
	}
}

// parseBindings parses KEY=ADDRESS [ARG...] key bindings.
func parseBindings(defs []string) (map[rune]*osc.Message, error) {
	bindings := make(map[rune]*osc.Message, len(defs))
	for _, def := range defs {
		key, rest, ok := strings.Cut(def, "=")
		if !ok || utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("binding %q: want KEY=ADDRESS [ARG...]", def)
		}

		fields := strings.Fields(rest)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
			return nil, fmt.Errorf("binding %q: address must start with '/'", def)
		}

		params, err := parseArgs(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", def, err)
		}

		char, _ := utf8.DecodeRuneInString(key)
		bindings[char] = osc.NewMessage(fields[0], params...)
	}
	return bindings, nil
}
