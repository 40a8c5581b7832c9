package interfaces

import (
	"context"
	"net"

	"github.com/m-mizutani/mailgate/pkg/domain/model"
)

// SPFVerifier checks whether ip is authorized to send mail for the sender's
// domain. The returned error is informational; the result value alone
// decides admission.
type SPFVerifier interface {
	Verify(ctx context.Context, ip net.IP, domain, sender string) (model.SPFResult, error)
}

// DKIMVerifier validates the DKIM signatures of a raw message. Verification
// errors count as a failed check.
type DKIMVerifier interface {
	Verify(ctx context.Context, raw []byte) (model.DKIMResult, error)
}
