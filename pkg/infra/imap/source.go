package imap

import (
	"context"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// Config holds the IMAP session parameters.
type Config struct {
	Server   string
	Account  string
	Password string
	Mailbox  string
}

// Source is a MailSource backed by an IMAP mailbox. Fetching a message
// without PEEK sets the \Seen flag, which is how messages are marked read.
type Source struct {
	client  *imapclient.Client
	mailbox string
}

// Dial connects over implicit TLS, logs in and selects the mailbox.
func Dial(cfg Config) (interfaces.MailSource, error) {
	c, err := imapclient.DialTLS(cfg.Server, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to dial IMAP server", goerr.V("server", cfg.Server))
	}

	if err := c.Login(cfg.Account, cfg.Password).Wait(); err != nil {
		_ = c.Close()
		return nil, goerr.Wrap(err, "IMAP login failed", goerr.V("account", cfg.Account))
	}

	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, nil).Wait(); err != nil {
		_ = c.Close()
		return nil, goerr.Wrap(err, "failed to select mailbox", goerr.V("mailbox", mailbox))
	}

	return &Source{client: c, mailbox: mailbox}, nil
}

// ListUnread searches the selected mailbox for messages without the \Seen
// flag and returns their UIDs.
func (x *Source) ListUnread(ctx context.Context) ([]types.MessageID, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	data, err := x.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, goerr.Wrap(err, "UID search for unseen messages failed", goerr.V("mailbox", x.mailbox))
	}

	uids := data.AllUIDs()
	ids := make([]types.MessageID, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, types.MessageID(strconv.FormatUint(uint64(uid), 10)))
	}
	return ids, nil
}

// Fetch retrieves the full raw message by UID. The body section is fetched
// without PEEK, so the server marks the message as read.
func (x *Source) Fetch(ctx context.Context, id types.MessageID) ([]byte, error) {
	n, err := strconv.ParseUint(string(id), 10, 32)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid message UID", goerr.V("message_id", id))
	}

	section := &imap.FetchItemBodySection{}
	msgs, err := x.client.Fetch(imap.UIDSetNum(imap.UID(n)), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch message", goerr.V("message_id", id))
	}
	if len(msgs) == 0 {
		return nil, goerr.New("message not found", goerr.V("message_id", id))
	}

	raw := msgs[0].FindBodySection(section)
	if raw == nil {
		return nil, goerr.New("message body section missing in fetch response", goerr.V("message_id", id))
	}
	return raw, nil
}

// Close logs out and terminates the connection.
func (x *Source) Close() error {
	if err := x.client.Logout().Wait(); err != nil {
		return goerr.Wrap(err, "IMAP logout failed")
	}
	return nil
}
