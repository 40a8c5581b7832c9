package model

import "github.com/m-mizutani/mailgate/pkg/domain/types"

// SyncResult reports what the sync engine did for one change request.
type SyncResult struct {
	Repo     string
	Branch   string
	FullPath string
	// Created is true when the file was created fresh, false when an
	// existing file was updated.
	Created bool
	// TagCreated is true when a tag and release were created. TagErr holds
	// the non-fatal tag creation failure, if any.
	TagCreated bool
	TagErr     error
}

// OutcomeStatus is the per-message result of one poll cycle.
type OutcomeStatus string

const (
	OutcomeSynced      OutcomeStatus = "synced"
	OutcomeRejected    OutcomeStatus = "rejected"
	OutcomeParseFailed OutcomeStatus = "parse_failed"
	OutcomeFetchFailed OutcomeStatus = "fetch_failed"
	OutcomeSyncFailed  OutcomeStatus = "sync_failed"
)

// MessageOutcome collects everything the cycle learned about one message.
// One outcome is produced per unread message; a failure in one message
// never affects the others.
type MessageOutcome struct {
	MessageID types.MessageID
	Status    OutcomeStatus
	Request   *ChangeRequest
	Verdict   *TrustVerdict
	Sync      *SyncResult
	Err       error
}
