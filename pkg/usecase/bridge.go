package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// Bridge orchestrates one poll cycle: list unread messages, then per
// message ingest and sync. Messages are processed strictly sequentially in
// the order the mailbox returns them; one message's failure never aborts
// the cycle.
type Bridge struct {
	source interfaces.MailSource
	ingest interfaces.IngestUseCase
	sync   interfaces.SyncUseCase
}

// NewBridge creates a Bridge.
func NewBridge(source interfaces.MailSource, ingest interfaces.IngestUseCase, sync interfaces.SyncUseCase) *Bridge {
	return &Bridge{
		source: source,
		ingest: ingest,
		sync:   sync,
	}
}

// RunCycle processes all currently unread messages and returns one outcome
// per message. Only a failure to list unread messages is fatal to the
// cycle.
func (x *Bridge) RunCycle(ctx context.Context) ([]*model.MessageOutcome, error) {
	logger := ctxlog.From(ctx).With("cycle_id", uuid.NewString())
	ctx = ctxlog.With(ctx, logger)

	ids, err := x.source.ListUnread(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list unread messages")
	}
	logger.Info("poll cycle started", "unread", len(ids))

	outcomes := make([]*model.MessageOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := x.processMessage(ctx, id)
		x.logOutcome(ctx, outcome)
		outcomes = append(outcomes, outcome)
	}

	logger.Info("poll cycle finished", "processed", len(outcomes))
	return outcomes, nil
}

func (x *Bridge) processMessage(ctx context.Context, id types.MessageID) *model.MessageOutcome {
	outcome := &model.MessageOutcome{MessageID: id}

	raw, err := x.source.Fetch(ctx, id)
	if err != nil {
		outcome.Status = model.OutcomeFetchFailed
		outcome.Err = goerr.Wrap(err, "failed to fetch message",
			goerr.T(types.TagMailFetchFailed),
			goerr.V("message_id", id),
		)
		return outcome
	}

	req, verdict, err := x.ingest.Ingest(ctx, id, raw)
	outcome.Request = req
	outcome.Verdict = verdict
	if err != nil {
		outcome.Status = classifyIngestErr(err)
		outcome.Err = err
		return outcome
	}

	res, err := x.sync.Apply(ctx, req)
	if err != nil {
		outcome.Status = model.OutcomeSyncFailed
		outcome.Err = err
		return outcome
	}

	outcome.Sync = res
	outcome.Status = model.OutcomeSynced
	return outcome
}

// classifyIngestErr maps a trust-gate rejection to OutcomeRejected;
// everything else from ingestion is a parse failure.
func classifyIngestErr(err error) model.OutcomeStatus {
	switch {
	case goerr.HasTag(err, types.TagSenderNotWhitelisted),
		goerr.HasTag(err, types.TagAuthenticationFailed),
		goerr.HasTag(err, types.TagRepoNotWhitelisted):
		return model.OutcomeRejected
	default:
		return model.OutcomeParseFailed
	}
}

func (x *Bridge) logOutcome(ctx context.Context, o *model.MessageOutcome) {
	logger := ctxlog.From(ctx)

	switch o.Status {
	case model.OutcomeSynced:
		action := "updated"
		if o.Sync.Created {
			action = "created"
		}
		logger.Info("message synced",
			"message_id", o.MessageID,
			"repo", o.Sync.Repo,
			"branch", o.Sync.Branch,
			"path", o.Sync.FullPath,
			"action", action,
			"tag_created", o.Sync.TagCreated,
		)
	case model.OutcomeRejected:
		logger.Warn("message rejected", "message_id", o.MessageID, "error", o.Err)
	default:
		logger.Error("message processing failed",
			"message_id", o.MessageID,
			"status", o.Status,
			"error", o.Err,
		)
	}
}
