// Package version implements the version command.
package version

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags "-X aarambh/aarambhnet/cmd/version.Version=...".
var Version = "unknown"

// GetCommand returns the CLI command printing the program version.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Program version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := io.Writer(os.Stdout)
			if cmd.Writer != nil {
				w = cmd.Writer
			}
			return printVersion(w, Version)
		},
		Flags: []cli.Flag{},
	}
}

func printVersion(w io.Writer, version string) error {
	if version == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}

	_, err := fmt.Fprintln(w, version)
	return err
}
