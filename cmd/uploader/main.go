package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/tournament-uploader/config"
)

func main() {
	if err := newCLI(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "uploader",
		Usage:     "upload Party Bots tournament files",
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"UPLOADER_CONFIG"},
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Value: cli.NewStringSlice(".env"),
				Usage: "dotenv files loaded before the environment is read",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "write logs to stderr",
			},
		},
		Commands: []*cli.Command{
			uploadCommand(),
			parseCommand(),
			exportCommand(),
			serveCommand(),
			watchCommand(),
			tokenCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"), c.StringSlice("env-file")...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func logOutput(c *cli.Context) io.Writer {
	if c.Bool("verbose") {
		return c.App.ErrWriter
	}
	return io.Discard
}
