package interfaces

import (
	"context"

	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// IngestUseCase turns one raw message into a validated change request.
type IngestUseCase interface {
	// Ingest extracts sender, subject and body from raw message bytes,
	// evaluates sender trust and parses the subject command. The verdict is
	// returned even when an error is returned, so callers can log it.
	Ingest(ctx context.Context, id types.MessageID, raw []byte) (*model.ChangeRequest, *model.TrustVerdict, error)
}

// SyncUseCase applies a validated change request to the remote repository.
type SyncUseCase interface {
	Apply(ctx context.Context, req *model.ChangeRequest) (*model.SyncResult, error)
}

// BridgeUseCase runs one poll cycle over the mailbox.
type BridgeUseCase interface {
	RunCycle(ctx context.Context) ([]*model.MessageOutcome, error)
}
