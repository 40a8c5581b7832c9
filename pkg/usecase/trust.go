package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
)

// TrustEvaluator combines the sender whitelist with SPF and DKIM results
// into a per-message admission decision. The whitelist is the primary trust
// boundary; either SPF or DKIM passing is sufficient for admission.
type TrustEvaluator struct {
	senders map[string]struct{}
	spf     interfaces.SPFVerifier
	dkim    interfaces.DKIMVerifier
}

// NewTrustEvaluator creates a TrustEvaluator. Whitelist entries are matched
// case-insensitively against the sender address.
func NewTrustEvaluator(senders []string, spf interfaces.SPFVerifier, dkim interfaces.DKIMVerifier) *TrustEvaluator {
	set := make(map[string]struct{}, len(senders))
	for _, s := range senders {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = struct{}{}
		}
	}
	return &TrustEvaluator{
		senders: set,
		spf:     spf,
		dkim:    dkim,
	}
}

// Evaluate produces the trust verdict for one inbound message. A sender not
// on the whitelist is rejected immediately without any SPF or DKIM call.
// With a whitelisted sender, the message is admitted unless both SPF and
// DKIM fail; a single passing signal admits with a warning naming the
// failed one.
func (x *TrustEvaluator) Evaluate(ctx context.Context, m *model.InboundMail) *model.TrustVerdict {
	logger := ctxlog.From(ctx)

	verdict := &model.TrustVerdict{
		Sender: m.From,
		SPF:    model.SPFUnknown,
		DKIM:   model.DKIMFail,
	}

	if _, ok := x.senders[strings.ToLower(m.From)]; !ok {
		logger.Warn("sender not in whitelist", "sender", m.From)
		return verdict
	}
	verdict.Whitelisted = true

	if m.OriginIP == nil {
		// No extractable origin IP: SPF contributes no evidence. Logged
		// apart from a real verification failure.
		logger.Warn("no origin IP in transport headers, SPF skipped", "sender", m.From)
	} else {
		result, err := x.spf.Verify(ctx, m.OriginIP, m.Domain, m.From)
		verdict.SPF = result
		switch {
		case err != nil:
			logger.Warn("SPF verification error", "sender", m.From, "ip", m.OriginIP.String(), "error", err)
		case result == model.SPFSoftFail:
			logger.Warn("SPF softfail, accepting with warning", "sender", m.From, "ip", m.OriginIP.String())
		case result == model.SPFFail:
			logger.Warn("SPF verification failed", "sender", m.From, "ip", m.OriginIP.String())
		default:
			logger.Debug("SPF result", "sender", m.From, "result", result)
		}
	}

	dkimResult, err := x.dkim.Verify(ctx, m.Raw)
	if err != nil {
		logger.Warn("DKIM verification error", "sender", m.From, "error", err)
		dkimResult = model.DKIMFail
	}
	verdict.DKIM = dkimResult

	spfOK := verdict.SPF.Acceptable()
	dkimOK := verdict.DKIM == model.DKIMPass
	verdict.Admitted = spfOK || dkimOK

	switch {
	case !verdict.Admitted:
		logger.Warn("both SPF and DKIM failed, rejecting", "sender", m.From,
			"spf", verdict.SPF, "dkim", verdict.DKIM)
	case !spfOK:
		logger.Warn("admitted on DKIM only", "sender", m.From, "spf", verdict.SPF)
	case !dkimOK:
		logger.Warn("admitted on SPF only", "sender", m.From, "spf", verdict.SPF)
	}

	return verdict
}
