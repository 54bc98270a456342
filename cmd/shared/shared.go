// Package shared provides the CLI flag definitions and helpers used by all
// aarambhnet commands.
package shared

import (
	"strings"

	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// VerboseFlag is the name of the flag to enable verbose logging.
const VerboseFlag = "verbose"

// TimeoutFlag is the name of the flag to specify operation timeout in milliseconds.
const TimeoutFlag = "timeout"

// ConfigFlag is the name of the flag to specify a TOML file with defaults.
const ConfigFlag = "config"

// LogDirFlag is the name of the flag to enable daily log files in a directory.
const LogDirFlag = "log-dir"

// GetBaseDescription returns the description of transport arguments.
func GetBaseDescription() string {
	return strings.Join([]string{
		"Specify transport like this: tcp://127.0.0.1:8000 (supports tcp|ws|kcp|udp)",
		"You can omit the host when serving to bind to all interfaces.",
	}, "\n")
}

// GetArgsUsage returns the arguments usage string for transport commands.
func GetArgsUsage() string {
	return "transport"
}

// GetCommonFlags returns the flags every command accepts.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
		&cli.IntFlag{
			Name:     TimeoutFlag,
			Aliases:  []string{"t"},
			Usage:    "Operation timeout in milliseconds (dialing, waiting for a connection slot), 0 disables it",
			Category: categoryCommon,
			Value:    10000,
			Required: false,
		},
		&cli.StringFlag{
			Name:     ConfigFlag,
			Aliases:  []string{"c"},
			Usage:    "TOML file with defaults, flags take precedence",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
		&cli.StringFlag{
			Name:     LogDirFlag,
			Usage:    "Also log to <dir>/aarambh-net.<date>.log",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
	}
}

const categoryStream = "stream"

// BufferFlag is the name of the flag to set the read buffer size.
const BufferFlag = "buffer"

// MuxFlag is the name of the flag to multiplex streams over one connection.
const MuxFlag = "mux"

// GetStreamFlags returns the flags shared by the server and the stream client.
func GetStreamFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     BufferFlag,
			Aliases:  []string{"b"},
			Usage:    "Read buffer size in bytes, also the maximum datagram size",
			Category: categoryStream,
			Value:    1024,
			Required: false,
		},
		&cli.BoolFlag{
			Name:     MuxFlag,
			Usage:    "Multiplex streams with yamux (tcp|ws|kcp only)",
			Category: categoryStream,
			Value:    false,
			Required: false,
		},
	}
}

const categoryServe = "serve"

// MaxConnsFlag is the name of the flag to cap concurrent connections.
const MaxConnsFlag = "max-conns"

// RecordFlag is the name of the flag to record traffic to a file.
const RecordFlag = "record"

// GetServeFlags returns the flags specific to the serve command.
func GetServeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     MaxConnsFlag,
			Usage:    "Maximum number of concurrent connections, 0 means unlimited",
			Category: categoryServe,
			Value:    0,
			Required: false,
		},
		&cli.StringFlag{
			Name:     RecordFlag,
			Aliases:  []string{"r"},
			Usage:    "Record all echoed traffic as hex dump to this file",
			Category: categoryServe,
			Value:    "",
			Required: false,
		},
	}
}

const categoryConnect = "connect"

// MessageFlag is the name of the flag to send a single message.
const MessageFlag = "message"

// GetConnectFlags returns the flags specific to the connect command.
func GetConnectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     MessageFlag,
			Aliases:  []string{"m"},
			Usage:    "Send this message, print the echo and exit. Without it, stdin is piped to the server",
			Category: categoryConnect,
			Value:    "",
			Required: false,
		},
	}
}

const categoryHTTP = "http"

// HeaderFlag is the name of the repeatable flag to add a request header.
const HeaderFlag = "header"

// DataFlag is the name of the flag to set the request body.
const DataFlag = "data"

// GetHTTPFlags returns the flags specific to the http command.
func GetHTTPFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     HeaderFlag,
			Aliases:  []string{"H"},
			Usage:    "Request header 'Key: value', repeatable, overrides headers of the config file",
			Category: categoryHTTP,
			Value:    []string{},
			Required: false,
		},
		&cli.StringFlag{
			Name:     DataFlag,
			Aliases:  []string{"d"},
			Usage:    "Request body for POST, PUT and PATCH",
			Category: categoryHTTP,
			Value:    "",
			Required: false,
		},
	}
}
