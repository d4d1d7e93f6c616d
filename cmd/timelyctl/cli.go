package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"timely-scheduler/config"
	"timely-scheduler/internal/app"
	"timely-scheduler/pkg/log"
)

// CLI holds state shared by every subcommand.
type CLI struct {
	cfgPath string
	cfg     *config.Config
	app     *app.App
	l       log.Logger
	now     func() time.Time
}

// run executes one command line and always releases the app afterwards so
// that policies trained during the command are persisted.
func run(ctx context.Context, args []string, out io.Writer) error {
	cli := &CLI{now: time.Now}
	root := cli.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	if cli.app != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = errors.Join(err, cli.app.Close(closeCtx))
	}
	return err
}

func (cli *CLI) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "timelyctl",
		Short:         "Timely scheduler control",
		Long:          "Add tasks, run scheduling passes and record invite outcomes against the local store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.setup(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "config file (default ./config/config.yaml)")

	cmd.AddCommand(cli.taskCommands())
	cmd.AddCommand(cli.scheduleCommand())
	cmd.AddCommand(cli.outcomeCommand())
	cmd.AddCommand(cli.pollCommand())
	cmd.AddCommand(cli.scoresCommand())

	return cmd
}

func (cli *CLI) setup(ctx context.Context) error {
	cfg, err := config.LoadFile(cli.cfgPath)
	if err != nil {
		return err
	}
	cli.cfg = cfg
	cli.l = log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	cli.app, err = app.Build(ctx, cfg, cli.l)
	return err
}
