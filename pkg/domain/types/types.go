package types

// Version is the application version, overwritten at build time via ldflags
var Version = "unknown"

// MessageID identifies a message within the mail source. For IMAP sources
// this is the decimal representation of the message UID.
type MessageID string

func (x MessageID) String() string {
	return string(x)
}
