package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/backoffice/internal/app"
	"github.com/heartmarshall/backoffice/internal/config"
)

// cli carries what the subcommands share.
type cli struct {
	out        io.Writer
	configPath string
	logLevel   string

	app      *app.App
	closeLog func() error
}

// execute runs the command line in args.
func execute(ctx context.Context, out io.Writer, args []string) error {
	return (&cli{out: out}).run(ctx, args)
}

// run executes args and always tears down what setup built. Cobra skips
// PersistentPostRunE when the command fails, so teardown lives here.
func (c *cli) run(ctx context.Context, args []string) error {
	root := c.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.teardown())
}

func newRootCmd(out io.Writer) *cobra.Command {
	return (&cli{out: out}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	out := c.out
	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Administrative console for the backoffice API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.setup(cmd)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config YAML (default $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		c.listCmd(),
		c.createCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.uploadWordsCmd(),
		c.orderCmd(),
		c.tuiCmd(),
		c.tokenCmd(),
		c.snapshotsCmd(),
		versionCmd(out),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	load := config.Load
	if c.configPath != "" {
		load = func() (*config.Config, error) { return config.LoadFrom(c.configPath) }
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	logger, closeLog, err := app.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	c.closeLog = closeLog

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		_ = closeLog()
		return err
	}
	c.app = a
	logger.Debug("command started", slog.String("command", cmd.CommandPath()))
	return nil
}

func (c *cli) teardown() error {
	var err error
	if c.app != nil {
		err = c.app.Close()
		c.app = nil
	}
	if c.closeLog != nil {
		_ = c.closeLog()
		c.closeLog = nil
	}
	return err
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(out, app.BuildVersion())
			return err
		},
	}
}
