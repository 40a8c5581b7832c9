package interfaces

import (
	"context"

	"github.com/m-mizutani/mailgate/pkg/domain/model"
)

// RepositoryClient defines the repository operations the sync engine
// needs. Existence probes report absence through their return values, never
// through errors; an error always means a genuine transport or API failure.
type RepositoryClient interface {
	// BranchExists reports whether the branch exists in the repository.
	BranchExists(ctx context.Context, repo, branch string) (bool, error)

	// BranchHead returns the commit SHA at the tip of the branch.
	BranchHead(ctx context.Context, repo, branch string) (string, error)

	// CreateBranch creates a new branch pointing at fromSHA.
	CreateBranch(ctx context.Context, repo, branch, fromSHA string) error

	// PathExists reports whether any content exists at path on ref.
	PathExists(ctx context.Context, repo, path, ref string) (bool, error)

	// GetFile returns the file at path on ref. The second return value is
	// false when the file does not exist.
	GetFile(ctx context.Context, repo, path, ref string) (*model.RepoFile, bool, error)

	// CreateFile creates a new file on branch with a commit carrying message.
	CreateFile(ctx context.Context, repo, path, message string, content []byte, branch string) error

	// UpdateFile replaces the file's content on branch. revision must be the
	// file's current revision; a mismatch is a legitimate conflict failure.
	UpdateFile(ctx context.Context, repo, path, message string, content []byte, revision, branch string) error

	// CreateTagAndRelease creates an annotated tag plus a release pointing
	// at targetSHA, with message as both tag message and release body.
	CreateTagAndRelease(ctx context.Context, repo, tag, message, targetSHA string) error
}
