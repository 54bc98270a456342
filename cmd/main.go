package main

import (
	"context"
	"os"

	"aarambh/aarambhnet/cmd/connect"
	"aarambh/aarambhnet/cmd/request"
	"aarambh/aarambhnet/cmd/serve"
	"aarambh/aarambhnet/cmd/shared"
	"aarambh/aarambhnet/cmd/version"
	"aarambh/aarambhnet/pkg/log"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shared.SetupSignalHandling(cancel)

	cmd := &cli.Command{
		Name:  "aarambhnet",
		Usage: "echo servers over tcp|ws|kcp|udp and the clients to talk to them",
		Commands: []*cli.Command{
			serve.GetCommand(),
			connect.GetCommand(),
			request.GetCommand(),
			version.GetCommand(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
		os.Exit(1)
	}
}
