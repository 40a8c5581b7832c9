package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
	"github.com/m-mizutani/mailgate/pkg/domain/types"
)

// dirMarkerFile is the placeholder written into otherwise-empty directories,
// since the content tree has no native empty-directory concept.
const dirMarkerFile = ".gitkeep"

// SyncEngine applies a validated ChangeRequest to the remote repository:
// ensure the target branch exists, materialize the directory path, create
// or update the file, and optionally tag the result.
type SyncEngine struct {
	repo          interfaces.RepositoryClient
	defaultBranch string
}

// NewSyncEngine creates a SyncEngine. defaultBranch is the branch new
// branches are forked from.
func NewSyncEngine(repo interfaces.RepositoryClient, defaultBranch string) *SyncEngine {
	return &SyncEngine{
		repo:          repo,
		defaultBranch: defaultBranch,
	}
}

// Apply performs the sync. The file write is the primary artifact: any
// failure up to and including it aborts the message. Tag creation failure
// after a committed file write is logged and reported in the result but
// does not fail the sync.
func (x *SyncEngine) Apply(ctx context.Context, req *model.ChangeRequest) (*model.SyncResult, error) {
	logger := ctxlog.From(ctx)

	res := &model.SyncResult{
		Repo:     req.RepoName,
		Branch:   req.Branch,
		FullPath: req.FullPath(),
	}

	if err := x.ensureBranch(ctx, req); err != nil {
		return nil, err
	}
	if err := x.ensurePath(ctx, req); err != nil {
		return nil, err
	}

	existing, found, err := x.repo.GetFile(ctx, req.RepoName, res.FullPath, req.Branch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check existing file",
			goerr.T(types.TagFileWriteFailed),
			goerr.V("repo", req.RepoName), goerr.V("path", res.FullPath),
		)
	}
	if found {
		// The update must carry the file's current revision so a concurrent
		// writer surfaces as a conflict instead of being clobbered.
		if err := x.repo.UpdateFile(ctx, req.RepoName, res.FullPath, req.CommitMessage, req.Content, existing.Revision, req.Branch); err != nil {
			return nil, goerr.Wrap(err, "failed to update file",
				goerr.T(types.TagFileWriteFailed),
				goerr.V("repo", req.RepoName), goerr.V("path", res.FullPath),
			)
		}
		logger.Info("file updated", "repo", req.RepoName, "branch", req.Branch, "path", res.FullPath)
	} else {
		if err := x.repo.CreateFile(ctx, req.RepoName, res.FullPath, req.CommitMessage, req.Content, req.Branch); err != nil {
			return nil, goerr.Wrap(err, "failed to create file",
				goerr.T(types.TagFileWriteFailed),
				goerr.V("repo", req.RepoName), goerr.V("path", res.FullPath),
			)
		}
		res.Created = true
		logger.Info("file created", "repo", req.RepoName, "branch", req.Branch, "path", res.FullPath)
	}

	if req.TagName != "" {
		if err := x.createTag(ctx, req); err != nil {
			res.TagErr = goerr.Wrap(err, "failed to create tag",
				goerr.T(types.TagTagCreateFailed),
				goerr.V("repo", req.RepoName), goerr.V("tag", req.TagName),
			)
			logger.Warn("tag creation failed, file commit kept", "tag", req.TagName, "error", err)
		} else {
			res.TagCreated = true
			logger.Info("tag and release created", "repo", req.RepoName, "tag", req.TagName)
		}
	}

	return res, nil
}

// ensureBranch creates the target branch from the default branch tip when
// it does not exist yet, so branch targeting is create-on-demand.
func (x *SyncEngine) ensureBranch(ctx context.Context, req *model.ChangeRequest) error {
	exists, err := x.repo.BranchExists(ctx, req.RepoName, req.Branch)
	if err != nil {
		return goerr.Wrap(err, "failed to check branch existence",
			goerr.T(types.TagBranchCreateFailed),
			goerr.V("repo", req.RepoName), goerr.V("branch", req.Branch),
		)
	}
	if exists {
		return nil
	}

	head, err := x.repo.BranchHead(ctx, req.RepoName, x.defaultBranch)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve default branch head",
			goerr.T(types.TagBranchCreateFailed),
			goerr.V("repo", req.RepoName), goerr.V("branch", x.defaultBranch),
		)
	}
	if err := x.repo.CreateBranch(ctx, req.RepoName, req.Branch, head); err != nil {
		return goerr.Wrap(err, "failed to create branch",
			goerr.T(types.TagBranchCreateFailed),
			goerr.V("repo", req.RepoName), goerr.V("branch", req.Branch),
		)
	}

	ctxlog.From(ctx).Info("branch created", "repo", req.RepoName, "branch", req.Branch, "from", x.defaultBranch)
	return nil
}

// ensurePath walks the directory path prefix by prefix and materializes
// each missing prefix with a marker file. Existence is checked per prefix:
// a missing deep segment does not imply the shallower ones are missing.
// Re-running with the same path is a per-segment no-op.
func (x *SyncEngine) ensurePath(ctx context.Context, req *model.ChangeRequest) error {
	if req.Path == "" {
		return nil
	}

	var prefix string
	for _, part := range strings.Split(req.Path, "/") {
		if part == "" {
			continue
		}
		if prefix == "" {
			prefix = part
		} else {
			prefix = prefix + "/" + part
		}

		exists, err := x.repo.PathExists(ctx, req.RepoName, prefix, req.Branch)
		if err != nil {
			return goerr.Wrap(err, "failed to check path existence",
				goerr.T(types.TagPathMaterializeFailed),
				goerr.V("repo", req.RepoName), goerr.V("path", prefix),
			)
		}
		if exists {
			continue
		}

		marker := prefix + "/" + dirMarkerFile
		if err := x.repo.CreateFile(ctx, req.RepoName, marker, "Create directory "+prefix, nil, req.Branch); err != nil {
			return goerr.Wrap(err, "failed to materialize directory",
				goerr.T(types.TagPathMaterializeFailed),
				goerr.V("repo", req.RepoName), goerr.V("path", prefix),
			)
		}
		ctxlog.From(ctx).Debug("directory materialized", "repo", req.RepoName, "path", prefix)
	}

	return nil
}

func (x *SyncEngine) createTag(ctx context.Context, req *model.ChangeRequest) error {
	head, err := x.repo.BranchHead(ctx, req.RepoName, req.Branch)
	if err != nil {
		return err
	}
	return x.repo.CreateTagAndRelease(ctx, req.RepoName, req.TagName, req.CommitMessage, head)
}
