package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/mailgate/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdWatch() *cli.Command {
	var (
		imapCfg   config.IMAP
		githubCfg config.GitHub
		trustCfg  config.Trust
		interval  time.Duration
	)

	flags := append(imapCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, trustCfg.Flags()...)
	flags = append(flags, &cli.DurationFlag{
		Name:        "interval",
		Usage:       "Delay between poll cycles",
		Value:       5 * time.Minute,
		Destination: &interval,
		Sources:     cli.EnvVars("MAILGATE_INTERVAL"),
	})

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Poll the mailbox on an interval until interrupted",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting mailgate watch",
				slog.String("interval", interval.String()),
			)

			// Wait for interrupt signal between cycles
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				// A failed cycle is logged and retried on the next tick.
				if err := runCycle(ctx, &imapCfg, &githubCfg, &trustCfg); err != nil {
					logger.Error("poll cycle failed", slog.Any("error", err))
				}

				select {
				case <-ctx.Done():
					logger.Info("Context cancelled, shutting down...")
					return nil
				case sig := <-sigChan:
					logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
					return nil
				case <-ticker.C:
				}
			}
		},
	}
}
