package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify per-message failures. The bridge maps them to
// outcome statuses; none of them abort a poll cycle.
var (
	TagMalformedSubject      = goerr.NewTag("malformed_subject")
	TagSenderNotWhitelisted  = goerr.NewTag("sender_not_whitelisted")
	TagAuthenticationFailed  = goerr.NewTag("authentication_failed")
	TagRepoNotWhitelisted    = goerr.NewTag("repo_not_whitelisted")
	TagBranchCreateFailed    = goerr.NewTag("branch_create_failed")
	TagPathMaterializeFailed = goerr.NewTag("path_materialize_failed")
	TagFileWriteFailed       = goerr.NewTag("file_write_failed")
	TagTagCreateFailed       = goerr.NewTag("tag_create_failed")
	TagMailFetchFailed       = goerr.NewTag("mail_fetch_failed")
)
