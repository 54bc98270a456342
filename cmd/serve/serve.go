// Package serve implements the serve command, which runs an echo server on
// a stream transport or on UDP.
package serve

import (
	"context"
	"fmt"
	"strings"

	"aarambh/aarambhnet/cmd/shared"
	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/datagram"
	"aarambh/aarambhnet/pkg/server"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command for serve mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Run an echo server",
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
				MaxConns:   shared.Int(cmd, shared.MaxConnsFlag, env.File.Server.MaxConns),
				Timeout:    shared.Timeout(cmd, env.File),
				Verbose:    env.Logger.IsVerbose(),
				Record:     cmd.String(shared.RecordFlag),
				Logger:     env.Logger,
			}

			if err := shared.ReportValidation(config.Validate(cfg)); err != nil {
				return err
			}

			return run(ctx, cfg)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetStreamFlags()...)
	flags = append(flags, shared.GetServeFlags()...)

	return flags
}

// run serves until ctx is done.
func run(ctx context.Context, cfg *config.Shared) error {
	if cfg.Protocol == config.ProtoUDP {
		return runDatagram(ctx, cfg)
	}
	return runStream(ctx, cfg)
}

func runStream(ctx context.Context, cfg *config.Shared) error {
	s, err := server.Bind(ctx, cfg)
	if err != nil {
		return fmt.Errorf("server.Bind(): %w", err)
	}
	defer s.Close()

	// context cancellation ends Run and every handler
	err = s.Run(ctx)
	s.Wait()
	if err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func runDatagram(ctx context.Context, cfg *config.Shared) error {
	s, err := datagram.Bind(cfg)
	if err != nil {
		return fmt.Errorf("datagram.Bind(): %w", err)
	}
	defer s.Close()

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
