package msgauth

import (
	"bytes"
	"context"

	"github.com/emersion/go-msgauth/dkim"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
)

type dkimVerifier struct{}

// NewDKIMVerifier creates a DKIMVerifier validating signatures over the raw
// message bytes.
func NewDKIMVerifier() interfaces.DKIMVerifier {
	return &dkimVerifier{}
}

// Verify passes when at least one DKIM signature validates. A message
// without signatures, or one where every signature fails, is a fail; so is
// any verification error.
func (x *dkimVerifier) Verify(ctx context.Context, raw []byte) (model.DKIMResult, error) {
	verifications, err := dkim.Verify(bytes.NewReader(raw))
	if err != nil {
		return model.DKIMFail, err
	}

	var lastErr error
	for _, v := range verifications {
		if v.Err == nil {
			return model.DKIMPass, nil
		}
		lastErr = v.Err
	}
	return model.DKIMFail, lastErr
}
