package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/cli/config"
	githubinfra "github.com/m-mizutani/mailgate/pkg/infra/github"
	imapinfra "github.com/m-mizutani/mailgate/pkg/infra/imap"
	"github.com/m-mizutani/mailgate/pkg/infra/msgauth"
	"github.com/m-mizutani/mailgate/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var (
		imapCfg   config.IMAP
		githubCfg config.GitHub
		trustCfg  config.Trust
	)

	flags := append(imapCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, trustCfg.Flags()...)

	return &cli.Command{
		Name:    "sync",
		Aliases: []string{"s"},
		Usage:   "Process all currently unread messages once",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return runCycle(ctx, &imapCfg, &githubCfg, &trustCfg)
		},
	}
}

// runCycle opens a fresh mailbox session, runs one poll cycle and closes
// the session again. Sessions are never reused across cycles.
func runCycle(ctx context.Context, imapCfg *config.IMAP, githubCfg *config.GitHub, trustCfg *config.Trust) error {
	logger := ctxlog.From(ctx)

	senders, repos, err := trustCfg.Load()
	if err != nil {
		return err
	}
	if len(senders) == 0 {
		logger.Warn("sender whitelist is empty, every message will be rejected")
	}

	logger.Info("connecting to mailbox",
		slog.Any("imap", imapCfg),
		slog.String("default_repo", githubCfg.DefaultRepo),
		slog.String("default_branch", githubCfg.DefaultBranch),
	)

	source, err := imapinfra.Dial(imapinfra.Config{
		Server:   imapCfg.Server,
		Account:  imapCfg.Account,
		Password: imapCfg.Password,
		Mailbox:  imapCfg.Mailbox,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to open mail source")
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Warn("failed to close mail source", slog.Any("error", err))
		}
	}()

	trust := usecase.NewTrustEvaluator(senders, msgauth.NewSPFVerifier(), msgauth.NewDKIMVerifier())
	ingest := usecase.NewIngestor(trust, repos, usecase.SubjectDefaults{
		Branch: githubCfg.DefaultBranch,
		Repo:   githubCfg.DefaultRepo,
	})
	syncEngine := usecase.NewSyncEngine(githubinfra.NewClient(githubCfg.Token), githubCfg.DefaultBranch)
	bridge := usecase.NewBridge(source, ingest, syncEngine)

	outcomes, err := bridge.RunCycle(ctx)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, o := range outcomes {
		counts[string(o.Status)]++
	}
	logger.Info("cycle summary", slog.Int("messages", len(outcomes)), slog.Any("by_status", counts))
	return nil
}
