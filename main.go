package main

import (
	"fmt"
	"os"

	"docimage/backends"
	_ "docimage/backends/gosource"
	_ "docimage/backends/markdown"
	"docimage/checking"
	"docimage/docgen"
	"docimage/logging"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docimage",
		Usage: "Embed local images into Go documentation as base64 data URIs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"DOCIMAGE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
				Value: "text",
			},
		},
		Before: func(cCtx *cli.Context) error {
			level, err := logging.ParseLevel(cCtx.String("log-level"))
			if err != nil {
				return err
			}
			format, err := logging.ParseFormat(cCtx.String("log-format"))
			if err != nil {
				return err
			}
			logging.InitLogger(os.Stderr, level, format)
			return nil
		},
	}

	for _, backend := range backends.Backends {
		app.Commands = append(app.Commands, backend.GenerateCommand())
	}
	app.Commands = append(app.Commands, checking.Command, docgen.Command)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
