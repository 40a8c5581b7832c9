package usecase

import (
	"bytes"
	"context"
	"io"
	"net"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// Ingestor turns raw message bytes into a validated ChangeRequest. It
// extracts sender, subject and body, runs the trust gate, parses the
// subject command and enforces the repository whitelist.
type Ingestor struct {
	trust    *TrustEvaluator
	repos    map[string]struct{}
	defaults SubjectDefaults
}

// NewIngestor creates an Ingestor. repoWhitelist holds the exact repository
// identifiers ("owner/name") the bridge is allowed to write to.
func NewIngestor(trust *TrustEvaluator, repoWhitelist []string, defaults SubjectDefaults) *Ingestor {
	set := make(map[string]struct{}, len(repoWhitelist))
	for _, r := range repoWhitelist {
		if r = strings.TrimSpace(r); r != "" {
			set[r] = struct{}{}
		}
	}
	return &Ingestor{
		trust:    trust,
		repos:    set,
		defaults: defaults,
	}
}

// Ingest processes one raw message. The verdict is returned alongside the
// error so callers can log which gate stopped a rejected message.
func (x *Ingestor) Ingest(ctx context.Context, id types.MessageID, raw []byte) (*model.ChangeRequest, *model.TrustVerdict, error) {
	m, err := ReadInboundMail(id, raw)
	if err != nil {
		return nil, nil, err
	}

	verdict := x.trust.Evaluate(ctx, m)
	if !verdict.Whitelisted {
		return nil, verdict, goerr.New("sender not whitelisted",
			goerr.T(types.TagSenderNotWhitelisted),
			goerr.V("sender", m.From),
		)
	}
	if !verdict.Admitted {
		return nil, verdict, goerr.New("both SPF and DKIM verification failed",
			goerr.T(types.TagAuthenticationFailed),
			goerr.V("sender", m.From),
			goerr.V("spf", verdict.SPF),
			goerr.V("dkim", verdict.DKIM),
		)
	}

	req, err := ParseSubject(m.Subject, x.defaults)
	if err != nil {
		return nil, verdict, err
	}
	req.Content = m.Body

	if _, ok := x.repos[req.RepoName]; !ok {
		return req, verdict, goerr.New("repository not whitelisted",
			goerr.T(types.TagRepoNotWhitelisted),
			goerr.V("repo", req.RepoName),
		)
	}

	return req, verdict, nil
}

// ReadInboundMail parses raw RFC 822 bytes into the fields the trust gate
// and subject parser need: sender address and domain, decoded subject, the
// first non-attachment text/plain body part, and the origin IP recovered
// from the Received headers.
func ReadInboundMail(id types.MessageID, raw []byte) (*model.InboundMail, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, goerr.Wrap(err, "failed to parse message", goerr.V("message_id", id))
	}

	hdr := mail.Header{Header: entity.Header}
	subject, _ := hdr.Subject()

	var from, domain string
	if addrs, err := hdr.AddressList("From"); err == nil && len(addrs) > 0 {
		from = addrs[0].Address
		if _, d, ok := strings.Cut(from, "@"); ok {
			domain = d
		}
	}

	return &model.InboundMail{
		ID:       id,
		From:     from,
		Domain:   domain,
		Subject:  subject,
		Body:     extractTextBody(entity),
		Raw:      raw,
		OriginIP: originIP(entity.Header),
	}, nil
}

// extractTextBody returns the first text/plain part that is not an
// attachment. Non-multipart messages yield their whole body.
func extractTextBody(entity *message.Entity) []byte {
	mr := mail.NewReader(entity)
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return nil
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		if ct, _, _ := h.ContentType(); ct != "" && ct != "text/plain" {
			continue
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil
		}
		return body
	}
}

var bracketAddr = regexp.MustCompile(`\[([0-9A-Fa-f.:]+)\]`)

// originIP scans the Received headers for a bracketed host address and
// returns the first public one. Private and loopback addresses are relay
// hops, not the sending host.
func originIP(h message.Header) net.IP {
	fields := h.FieldsByKey("Received")
	for fields.Next() {
		for _, m := range bracketAddr.FindAllStringSubmatch(fields.Value(), -1) {
			ip := net.ParseIP(m[1])
			if ip == nil {
				continue
			}
			if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
				continue
			}
			return ip
		}
	}
	return nil
}
