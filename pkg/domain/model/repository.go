package model

// RepoFile is the current state of a file in the remote repository.
// Revision is the backend-specific token (blob SHA on GitHub) that a safe
// update must present to avoid clobbering concurrent changes.
type RepoFile struct {
	Revision string
	Content  []byte
}
