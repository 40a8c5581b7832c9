package model

// SPFResult classifies the outcome of an SPF check
type SPFResult string

const (
	SPFPass     SPFResult = "pass"
	SPFSoftFail SPFResult = "softfail"
	SPFFail     SPFResult = "fail"
	// SPFUnknown covers both verification errors and the case where no
	// origin IP could be extracted from the message transport headers.
	SPFUnknown SPFResult = "unknown"
)

// Acceptable reports whether the SPF result counts as passing for the
// admission rule. SoftFail is accepted with a warning.
func (x SPFResult) Acceptable() bool {
	return x == SPFPass || x == SPFSoftFail
}

// DKIMResult classifies the outcome of a DKIM signature verification
type DKIMResult string

const (
	DKIMPass DKIMResult = "pass"
	DKIMFail DKIMResult = "fail"
)

// TrustVerdict is the per-message authentication outcome. It is created
// fresh per message and discarded after the cycle's log entry is emitted.
type TrustVerdict struct {
	Sender      string
	Whitelisted bool
	SPF         SPFResult
	DKIM        DKIMResult
	Admitted    bool
}
