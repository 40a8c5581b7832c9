package usecase

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// subjectPattern is the whole subject-command grammar as a single anchored
// pattern. Clauses are optional but order-sensitive; each value is captured
// non-greedily up to the closing bracket. The trailing token is the target
// filename and must carry an extension.
var subjectPattern = regexp.MustCompile(
	`^(?:\[commit_msg:(?P<commit_msg>.*?)\])?\s*` +
		`(?:\[branch:(?P<branch>.*?)\])?\s*` +
		`(?:\[author:(?P<author>.*?)\])?\s*` +
		`(?:\[repo:(?P<repo>.*?)\])?\s*` +
		`(?:\[tag:(?P<tag>.*?)\])?\s*` +
		`(?P<filename>.+\..+)$`)

// SubjectDefaults supplies the configured fallback values for clauses the
// subject omits.
type SubjectDefaults struct {
	Branch string
	Repo   string
}

// ParseSubject parses a message subject into a ChangeRequest. The grammar is
//
//	[commit_msg:<text>] [branch:<text>] [author:<text>] [repo:<text>] [tag:<text>] <filename>
//
// where every clause is optional. A directory prefix in the filename token
// is split off into Path, so "notes/readme.md" targets readme.md under the
// notes directory. Content is not set; the caller attaches the message body.
func ParseSubject(subject string, defaults SubjectDefaults) (*model.ChangeRequest, error) {
	m := subjectPattern.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return nil, goerr.New("subject does not match command grammar",
			goerr.T(types.TagMalformedSubject),
			goerr.V("subject", subject),
		)
	}

	group := func(name string) string {
		return strings.TrimSpace(m[subjectPattern.SubexpIndex(name)])
	}

	req := &model.ChangeRequest{
		CommitMessage: model.DefaultCommitMessage,
		Branch:        defaults.Branch,
		Author:        model.DefaultAuthor,
		RepoName:      defaults.Repo,
	}
	if v := group("commit_msg"); v != "" {
		req.CommitMessage = v
	}
	if v := group("branch"); v != "" {
		req.Branch = v
	}
	if v := group("author"); v != "" {
		req.Author = v
	}
	if v := group("repo"); v != "" {
		req.RepoName = v
	}
	if v := group("tag"); v != "" {
		req.TagName = v
	}

	token := group("filename")
	// Out-of-order clauses are swallowed into the filename token by the
	// pattern; brackets there mean the subject violated the clause order.
	if strings.ContainsAny(token, "[]") {
		return nil, goerr.New("clauses out of order or malformed",
			goerr.T(types.TagMalformedSubject),
			goerr.V("subject", subject),
		)
	}
	if i := strings.LastIndex(token, "/"); i >= 0 {
		req.Path = strings.Trim(token[:i], "/")
		token = token[i+1:]
	}
	if !validFilename(token) {
		return nil, goerr.New("filename token has no extension",
			goerr.T(types.TagMalformedSubject),
			goerr.V("subject", subject),
			goerr.V("token", token),
		)
	}
	req.Filename = token

	return req, nil
}

// validFilename requires a non-empty base name, a dot and a non-empty
// extension. Extension semantics beyond that are not checked.
func validFilename(name string) bool {
	i := strings.LastIndex(name, ".")
	return i >= 1 && i < len(name)-1
}
