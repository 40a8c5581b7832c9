package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
	"github.com/m-mizutani/mailgate/pkg/usecase"
)

func buildMail(subject string) []byte {
	return []byte("Received: from mail.example.com (mail.example.com [203.0.113.7])\r\n" +
		"\tby mx.example.net with ESMTP; Mon, 10 Aug 2026 10:00:00 +0000\r\n" +
		"From: Alice <alice@example.com>\r\n" +
		"To: bridge@example.net\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"hello world\r\n")
}

func newIngestor(spf *mockSPF, dkim *mockDKIM) *usecase.Ingestor {
	trust := usecase.NewTrustEvaluator([]string{"alice@example.com"}, spf, dkim)
	return usecase.NewIngestor(trust, []string{"example/notes", "example/other"}, usecase.SubjectDefaults{
		Branch: "main",
		Repo:   "example/notes",
	})
}

func TestIngestor_ValidMessage(t *testing.T) {
	ingest := newIngestor(&mockSPF{result: model.SPFPass}, &mockDKIM{result: model.DKIMPass})

	req, verdict, err := ingest.Ingest(context.Background(), types.MessageID("1"), buildMail("[branch:feature-x] notes/readme.md"))
	gt.NoError(t, err)

	gt.Value(t, verdict.Admitted).Equal(true)
	gt.Value(t, req.Branch).Equal("feature-x")
	gt.Value(t, req.Path).Equal("notes")
	gt.Value(t, req.Filename).Equal("readme.md")
	gt.Value(t, req.RepoName).Equal("example/notes")
	gt.String(t, string(req.Content)).Contains("hello world")
}

func TestIngestor_SenderNotWhitelisted(t *testing.T) {
	spf := &mockSPF{result: model.SPFPass}
	trust := usecase.NewTrustEvaluator([]string{"bob@example.com"}, spf, &mockDKIM{result: model.DKIMPass})
	ingest := usecase.NewIngestor(trust, []string{"example/notes"}, usecase.SubjectDefaults{Branch: "main", Repo: "example/notes"})

	req, verdict, err := ingest.Ingest(context.Background(), types.MessageID("1"), buildMail("report.txt"))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.TagSenderNotWhitelisted)).Equal(true)
	gt.Value(t, verdict).NotEqual(nil)
	gt.Value(t, verdict.Whitelisted).Equal(false)
	gt.Value(t, req).Equal((*model.ChangeRequest)(nil))
	gt.Number(t, spf.calls).Equal(0)
}

func TestIngestor_AuthenticationFailed(t *testing.T) {
	ingest := newIngestor(&mockSPF{result: model.SPFFail}, &mockDKIM{result: model.DKIMFail})

	_, verdict, err := ingest.Ingest(context.Background(), types.MessageID("1"), buildMail("report.txt"))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.TagAuthenticationFailed)).Equal(true)
	gt.Value(t, verdict.Whitelisted).Equal(true)
	gt.Value(t, verdict.Admitted).Equal(false)
}

func TestIngestor_MalformedSubject(t *testing.T) {
	ingest := newIngestor(&mockSPF{result: model.SPFPass}, &mockDKIM{result: model.DKIMPass})

	_, verdict, err := ingest.Ingest(context.Background(), types.MessageID("1"), buildMail("no extension here"))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.TagMalformedSubject)).Equal(true)
	// trust gate already passed when parsing fails
	gt.Value(t, verdict.Admitted).Equal(true)
}

func TestIngestor_RepoNotWhitelisted(t *testing.T) {
	ingest := newIngestor(&mockSPF{result: model.SPFPass}, &mockDKIM{result: model.DKIMPass})

	req, _, err := ingest.Ingest(context.Background(), types.MessageID("1"), buildMail("[repo:evil/repo] report.txt"))

	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.TagRepoNotWhitelisted)).Equal(true)
	// parsed request is still returned for logging
	gt.Value(t, req.RepoName).Equal("evil/repo")
}

func TestReadInboundMail(t *testing.T) {
	t.Run("simple message", func(t *testing.T) {
		m := gt.R1(usecase.ReadInboundMail(types.MessageID("7"), buildMail("report.txt"))).NoError(t)

		gt.Value(t, m.From).Equal("alice@example.com")
		gt.Value(t, m.Domain).Equal("example.com")
		gt.Value(t, m.Subject).Equal("report.txt")
		gt.String(t, string(m.Body)).Contains("hello world")
		gt.Value(t, m.OriginIP.String()).Equal("203.0.113.7")
	})

	t.Run("multipart skips attachments", func(t *testing.T) {
		raw := []byte("From: Alice <alice@example.com>\r\n" +
			"Subject: report.txt\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: multipart/mixed; boundary=BOUNDARY\r\n" +
			"\r\n" +
			"--BOUNDARY\r\n" +
			"Content-Type: text/plain\r\n" +
			"Content-Disposition: attachment; filename=\"a.txt\"\r\n" +
			"\r\n" +
			"ATTACHED CONTENT\r\n" +
			"--BOUNDARY\r\n" +
			"Content-Type: text/plain\r\n" +
			"\r\n" +
			"inline body\r\n" +
			"--BOUNDARY--\r\n")

		m := gt.R1(usecase.ReadInboundMail(types.MessageID("8"), raw)).NoError(t)

		gt.String(t, string(m.Body)).Contains("inline body")
		gt.Value(t, len(m.Body) > 0).Equal(true)
		if string(m.Body) == "ATTACHED CONTENT\r\n" {
			t.Error("attachment part must not be used as body")
		}
	})

	t.Run("private relay addresses are skipped", func(t *testing.T) {
		raw := []byte("Received: from internal (internal [10.0.0.5])\r\n" +
			"\tby mx.example.net; Mon, 10 Aug 2026 10:00:00 +0000\r\n" +
			"From: Alice <alice@example.com>\r\n" +
			"Subject: report.txt\r\n" +
			"\r\n" +
			"body\r\n")

		m := gt.R1(usecase.ReadInboundMail(types.MessageID("9"), raw)).NoError(t)
		gt.Value(t, m.OriginIP).Equal(nil)
	})
}
