package model

// Defaults applied when the corresponding subject clause is omitted
const (
	DefaultCommitMessage = "Automatically generated change"
	DefaultAuthor        = "Unknown"
)

// ChangeRequest is the unit of work extracted from one message subject plus
// its body. Branch and RepoName are always non-empty after parsing; Path and
// TagName may be empty.
type ChangeRequest struct {
	Filename      string
	Path          string
	CommitMessage string
	Branch        string
	Author        string
	RepoName      string
	TagName       string
	Content       []byte
}

// FullPath returns the repository path of the target file, prefixing the
// directory path when one was supplied.
func (x *ChangeRequest) FullPath() string {
	if x.Path == "" {
		return x.Filename
	}
	return x.Path + "/" + x.Filename
}
