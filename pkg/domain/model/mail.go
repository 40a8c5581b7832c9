package model

import (
	"net"

	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// InboundMail holds the fields extracted from one raw RFC 822 message that
// the trust evaluation and subject parsing need.
type InboundMail struct {
	ID      types.MessageID
	From    string
	Domain  string
	Subject string
	Body    []byte
	Raw     []byte
	// OriginIP is the sending host address recovered from the Received
	// headers. Nil when no address could be extracted; SPF then yields
	// an unknown result instead of a verification failure.
	OriginIP net.IP
}
