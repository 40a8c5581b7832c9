package msgauth

import (
	"context"
	"net"

	"blitiri.com.ar/go/spf"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
)

type spfVerifier struct{}

// NewSPFVerifier creates an SPFVerifier performing live DNS-based SPF
// evaluation.
func NewSPFVerifier() interfaces.SPFVerifier {
	return &spfVerifier{}
}

// Verify checks whether ip is authorized to send for the sender's domain.
// SPF results outside pass/softfail/fail (none, neutral, temporary or
// permanent evaluation errors) map to unknown; the admission policy treats
// unknown as a failed signal.
func (x *spfVerifier) Verify(ctx context.Context, ip net.IP, domain, sender string) (model.SPFResult, error) {
	result, err := spf.CheckHostWithSender(ip, domain, sender, spf.WithContext(ctx))

	switch result {
	case spf.Pass:
		return model.SPFPass, nil
	case spf.SoftFail:
		return model.SPFSoftFail, err
	case spf.Fail:
		return model.SPFFail, err
	default:
		return model.SPFUnknown, err
	}
}
