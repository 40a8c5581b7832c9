package interfaces

import (
	"context"

	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// MailSource provides access to unread messages in a mailbox. Fetching a
// message marks it as read as a side effect; there is no explicit
// acknowledge call.
type MailSource interface {
	// ListUnread returns the identifiers of all currently unread messages.
	// The order is whatever the mailbox returns and is not guaranteed to
	// be chronological.
	ListUnread(ctx context.Context) ([]types.MessageID, error)

	// Fetch retrieves the raw RFC 822 bytes of one message and marks it
	// as read.
	Fetch(ctx context.Context, id types.MessageID) ([]byte, error)

	// Close terminates the mailbox session.
	Close() error
}
