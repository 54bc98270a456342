// Package connect implements the connect command, a stream client that sends
// one message or pipes stdin to an echo server.
package connect

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"aarambh/aarambhnet/cmd/shared"
	"aarambh/aarambhnet/pkg/client"
	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/pipeio"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// GetCommand returns the CLI command for connect mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Usage:       "Connect to a stream echo server",
		Description: shared.GetBaseDescription(),
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return fmt.Errorf("must provide exactly one argument, got %d (%s)", args.Len(), strings.Join(args.Slice(), ", "))
			}

			proto, host, port, err := shared.ParseTransport(args.Get(0))
			if err != nil {
				return fmt.Errorf("parsing transport: %w", err)
			}
			if host == "" {
				return fmt.Errorf("parsing transport: %s: specify a host", args.Get(0))
			}
			if port == 0 {
				return fmt.Errorf("parsing transport: %s: specify a port", args.Get(0))
			}
			if !proto.IsStream() {
				return fmt.Errorf("parsing transport: %s: connect supports tcp|ws|kcp", args.Get(0))
			}

			env, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			cfg := &config.Shared{
				Protocol:   proto,
				Host:       host,
				Port:       port,
				BufferSize: shared.Int(cmd, shared.BufferFlag, env.File.Server.BufferSize),
				Mux:        cmd.Bool(shared.MuxFlag),
				Timeout:    shared.Timeout(cmd, env.File),
				Verbose:    env.Logger.IsVerbose(),
				Logger:     env.Logger,
			}

			if err := shared.ReportValidation(config.Validate(cfg)); err != nil {
				return err
			}

			c := client.New(cfg)
			if err := c.Connect(ctx); err != nil {
				return err
			}
			defer c.Close()

			if cmd.IsSet(shared.MessageFlag) {
				return sendOnce(c, cmd.String(shared.MessageFlag), cfg.Timeout, os.Stdout)
			}

			if term.IsTerminal(int(os.Stdin.Fd())) {
				env.Logger.InfoMsg("Connected, type to send, Ctrl-D to quit\n")
			}
			pipe(ctx, c, pipeio.NewStdio(nil, nil), cfg)
			return nil
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetStreamFlags()...)
	flags = append(flags, shared.GetConnectFlags()...)

	return flags
}

// sendOnce sends msg, waits up to timeout for the echo and prints it.
func sendOnce(c *client.Client, msg string, timeout time.Duration, out io.Writer) error {
	if err := c.Send(msg); err != nil {
		return fmt.Errorf("sending: %w", err)
	}

	if timeout > 0 {
		c.Conn().SetReadDeadline(time.Now().Add(timeout))
	}

	reply, err := c.Receive()
	if err != nil {
		return fmt.Errorf("receiving: %w", err)
	}

	fmt.Fprintln(out, reply)
	return nil
}

// pipe connects stdio and the server until either side ends or ctx is done.
func pipe(ctx context.Context, c *client.Client, stdio io.ReadWriteCloser, cfg *config.Shared) {
	pipeio.Pipe(ctx, stdio, c.Conn(), func(err error) {
		cfg.Logger.VerboseMsg("Pipe(stdio, conn): %s", err)
	})
}
