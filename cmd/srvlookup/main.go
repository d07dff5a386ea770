// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// srvlookup resolves services and prints the addresses a client would try,
// in order.
//
//	srvlookup --resolver dns --nameserver 10.0.0.53 _ldap._tcp.example.com
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "YAML file with a netsvc section configuring the resolver",
	},
	&cli.StringFlag{
		Name:  "resolver",
		Usage: "resolver to use: 'system', 'dns' or 'static' (overrides --config)",
	},
	&cli.StringSliceFlag{
		Name:  "nameserver",
		Usage: "nameserver for the dns resolver, host or host:port (repeatable)",
	},
	&cli.StringFlag{
		Name:  "scheme",
		Usage: "URI scheme for target addresses, defaults to the service label",
	},
	&cli.BoolFlag{
		Name:  "proxy",
		Usage: "take HTTP_PROXY, HTTPS_PROXY and NO_PROXY into account",
	},
	&cli.BoolFlag{
		Name:  "async",
		Usage: "enumerate with asynchronous steps",
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Value: 10 * time.Second,
		Usage: "overall deadline for all lookups",
	},
	&cli.StringFlag{
		Name:  "format",
		Value: "text",
		Usage: "output format: 'text', 'json' or 'yaml'",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Usage: "log debug messages",
	},
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "srvlookup",
		Usage:     "Resolve SRV services into the addresses to connect to",
		ArgsUsage: "_service._proto.domain...",
		Flags:     flags,
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(cCtx *cli.Context) error {
			logger := newLogger(stderr, cCtx.Bool("log-debug"), cCtx.Bool("log-json"))
			defer func() { _ = logger.Sync() }()

			opts, err := newLookupOptions(cCtx, logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cCtx.Context, cCtx.Duration("timeout"))
			defer cancel()

			reports, err := lookup(ctx, opts, cCtx.Args().Slice())
			if err != nil {
				return err
			}
			if err := write(stdout, cCtx.String("format"), reports); err != nil {
				return err
			}
			for _, r := range reports {
				if len(r.Candidates) == 0 {
					return fmt.Errorf("no candidates found for %s", r.Service)
				}
			}
			return nil
		},
	}
}

func newLogger(w io.Writer, debug, json bool) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}
