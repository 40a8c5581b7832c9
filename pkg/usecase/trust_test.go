package usecase_test

import (
	"context"
	"net"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/usecase"
)

// mockSPF is an SPFVerifier with a fixed result, counting calls
type mockSPF struct {
	result model.SPFResult
	err    error
	calls  int
}

func (m *mockSPF) Verify(ctx context.Context, ip net.IP, domain, sender string) (model.SPFResult, error) {
	m.calls++
	return m.result, m.err
}

// mockDKIM is a DKIMVerifier with a fixed result, counting calls
type mockDKIM struct {
	result model.DKIMResult
	err    error
	calls  int
}

func (m *mockDKIM) Verify(ctx context.Context, raw []byte) (model.DKIMResult, error) {
	m.calls++
	return m.result, m.err
}

func testMail(from string, ip net.IP) *model.InboundMail {
	return &model.InboundMail{
		From:     from,
		Domain:   "example.com",
		Subject:  "report.txt",
		Raw:      []byte("From: " + from + "\r\n\r\nbody"),
		OriginIP: ip,
	}
}

func TestTrustEvaluator_WhitelistShortCircuit(t *testing.T) {
	spf := &mockSPF{result: model.SPFPass}
	dkim := &mockDKIM{result: model.DKIMPass}
	eval := usecase.NewTrustEvaluator([]string{"alice@example.com"}, spf, dkim)

	verdict := eval.Evaluate(context.Background(), testMail("mallory@example.com", net.ParseIP("203.0.113.7")))

	gt.Value(t, verdict.Whitelisted).Equal(false)
	gt.Value(t, verdict.Admitted).Equal(false)
	gt.Number(t, spf.calls).Equal(0)
	gt.Number(t, dkim.calls).Equal(0)
}

func TestTrustEvaluator_WhitelistCaseInsensitive(t *testing.T) {
	spf := &mockSPF{result: model.SPFPass}
	dkim := &mockDKIM{result: model.DKIMPass}
	eval := usecase.NewTrustEvaluator([]string{"Alice@Example.com"}, spf, dkim)

	verdict := eval.Evaluate(context.Background(), testMail("alice@example.com", net.ParseIP("203.0.113.7")))

	gt.Value(t, verdict.Whitelisted).Equal(true)
	gt.Value(t, verdict.Admitted).Equal(true)
}

func TestTrustEvaluator_AdmissionMatrix(t *testing.T) {
	spfResults := []model.SPFResult{model.SPFPass, model.SPFSoftFail, model.SPFFail, model.SPFUnknown}
	dkimResults := []model.DKIMResult{model.DKIMPass, model.DKIMFail}

	for _, spfResult := range spfResults {
		for _, dkimResult := range dkimResults {
			name := string(spfResult) + "/" + string(dkimResult)
			t.Run(name, func(t *testing.T) {
				spf := &mockSPF{result: spfResult}
				dkim := &mockDKIM{result: dkimResult}
				eval := usecase.NewTrustEvaluator([]string{"alice@example.com"}, spf, dkim)

				verdict := eval.Evaluate(context.Background(), testMail("alice@example.com", net.ParseIP("203.0.113.7")))

				spfOK := spfResult == model.SPFPass || spfResult == model.SPFSoftFail
				dkimOK := dkimResult == model.DKIMPass
				gt.Value(t, verdict.Admitted).Equal(spfOK || dkimOK)
				gt.Value(t, verdict.SPF).Equal(spfResult)
				gt.Value(t, verdict.DKIM).Equal(dkimResult)
			})
		}
	}
}

func TestTrustEvaluator_NoOriginIPSkipsSPF(t *testing.T) {
	spf := &mockSPF{result: model.SPFPass}
	dkim := &mockDKIM{result: model.DKIMPass}
	eval := usecase.NewTrustEvaluator([]string{"alice@example.com"}, spf, dkim)

	verdict := eval.Evaluate(context.Background(), testMail("alice@example.com", nil))

	gt.Number(t, spf.calls).Equal(0)
	gt.Value(t, verdict.SPF).Equal(model.SPFUnknown)
	// DKIM alone still admits
	gt.Value(t, verdict.Admitted).Equal(true)
}

func TestTrustEvaluator_DKIMErrorCountsAsFail(t *testing.T) {
	spf := &mockSPF{result: model.SPFFail}
	dkim := &mockDKIM{result: model.DKIMPass, err: context.DeadlineExceeded}
	eval := usecase.NewTrustEvaluator([]string{"alice@example.com"}, spf, dkim)

	verdict := eval.Evaluate(context.Background(), testMail("alice@example.com", net.ParseIP("203.0.113.7")))

	gt.Value(t, verdict.DKIM).Equal(model.DKIMFail)
	gt.Value(t, verdict.Admitted).Equal(false)
}
