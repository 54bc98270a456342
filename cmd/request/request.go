// Package request implements the http command, which sends one HTTP request
// relative to a base URL and prints the response.
package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"aarambh/aarambhnet/cmd/shared"
	"aarambh/aarambhnet/pkg/httpclient"
	"aarambh/aarambhnet/pkg/log"

	"github.com/urfave/cli/v3"
)

var methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
}

// GetCommand returns the CLI command for HTTP requests.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "http",
		Usage: "Send an HTTP request",
		Description: strings.Join([]string{
			"Arguments: method [base-url] endpoint",
			"The endpoint is resolved against the base URL, which may come from the config file.",
			"Methods: " + strings.Join(methods, "|"),
		}, "\n"),
		ArgsUsage: "method [base-url] endpoint",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			method, baseURL, endpoint, err := parseArgs(cmd.Args().Slice(), env.File.HTTP.BaseURL)
			if err != nil {
				return err
			}

			headers := make(http.Header)
			for k, v := range env.File.HTTP.Headers {
				headers.Set(k, v)
			}

			extra, err := shared.ParseHeaders(cmd.StringSlice(shared.HeaderFlag))
			if err != nil {
				return err
			}

			var body io.Reader
			if cmd.IsSet(shared.DataFlag) {
				body = strings.NewReader(cmd.String(shared.DataFlag))
			}

			c, err := httpclient.New(baseURL, headers, httpclient.WithLogger(env.Logger))
			if err != nil {
				return err
			}

			resp, err := send(ctx, c, method, endpoint, extra, body)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			return printResponse(resp, env.Logger, os.Stdout)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetHTTPFlags()...)

	return flags
}

// parseArgs accepts "method base-url endpoint", or "method endpoint" when
// a default base URL is configured.
func parseArgs(args []string, defaultBase string) (method, baseURL, endpoint string, err error) {
	switch {
	case len(args) == 3:
		method, baseURL, endpoint = args[0], args[1], args[2]
	case len(args) == 2 && defaultBase != "":
		method, baseURL, endpoint = args[0], defaultBase, args[1]
	default:
		err = fmt.Errorf("usage: http method [base-url] endpoint, got %d arguments (%s)", len(args), strings.Join(args, ", "))
		return
	}

	method = strings.ToUpper(method)
	for _, m := range methods {
		if m == method {
			return
		}
	}

	err = fmt.Errorf("unsupported method %q, use one of %s", method, strings.Join(methods, "|"))
	return
}

func send(ctx context.Context, c *httpclient.Client, method, endpoint string, headers http.Header, body io.Reader) (*http.Response, error) {
	switch method {
	case http.MethodGet:
		return c.Get(ctx, endpoint, headers)
	case http.MethodPost:
		return c.Post(ctx, endpoint, headers, body)
	case http.MethodPut:
		return c.Put(ctx, endpoint, headers, body)
	case http.MethodPatch:
		return c.Patch(ctx, endpoint, headers, body)
	case http.MethodDelete:
		return c.Delete(ctx, endpoint, headers)
	case http.MethodHead:
		return c.Head(ctx, endpoint, headers)
	default:
		return c.Do(ctx, method, endpoint, headers, body)
	}
}

// printResponse logs the status line and writes the body to out.
func printResponse(resp *http.Response, logger *log.Logger, out io.Writer) error {
	logger.InfoMsg("%s %s\n", resp.Proto, resp.Status)
	for k, vs := range resp.Header {
		logger.VerboseMsg("%s: %s", k, strings.Join(vs, ", "))
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return nil
}
