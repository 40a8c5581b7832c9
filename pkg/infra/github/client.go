package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mailgate/pkg/domain/interfaces"
	"github.com/m-mizutani/mailgate/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a RepositoryClient backed by the GitHub REST API,
// authenticated with a personal access token.
func NewClient(token string) interfaces.RepositoryClient {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
}

// splitRepo splits an "owner/name" repository identifier.
func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", goerr.New("repository identifier must be owner/name", goerr.V("repo", repo))
	}
	return owner, name, nil
}

// notFound reports whether the API response signaled a missing resource.
// Absence is an expected probe result, not an error.
func notFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

func (c *client) BranchExists(ctx context.Context, repo, branch string) (bool, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return false, err
	}

	_, resp, err := c.githubClient.Repositories.GetBranch(ctx, owner, name, branch, 0)
	if err != nil {
		if notFound(resp) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get branch", goerr.V("repo", repo), goerr.V("branch", branch))
	}
	return true, nil
}

func (c *client) BranchHead(ctx context.Context, repo, branch string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	b, _, err := c.githubClient.Repositories.GetBranch(ctx, owner, name, branch, 0)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get branch head", goerr.V("repo", repo), goerr.V("branch", branch))
	}
	return b.GetCommit().GetSHA(), nil
}

func (c *client) CreateBranch(ctx context.Context, repo, branch, fromSHA string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	ref := &github.Reference{
		Ref:    github.Ptr("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.Ptr(fromSHA)},
	}
	if _, _, err := c.githubClient.Git.CreateRef(ctx, owner, name, ref); err != nil {
		return goerr.Wrap(err, "failed to create branch ref", goerr.V("repo", repo), goerr.V("branch", branch))
	}
	return nil
}

func (c *client) PathExists(ctx context.Context, repo, path, ref string) (bool, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return false, err
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	_, _, resp, err := c.githubClient.Repositories.GetContents(ctx, owner, name, path, opts)
	if err != nil {
		if notFound(resp) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get contents", goerr.V("repo", repo), goerr.V("path", path))
	}
	return true, nil
}

func (c *client) GetFile(ctx context.Context, repo, path, ref string) (*model.RepoFile, bool, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, false, err
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, resp, err := c.githubClient.Repositories.GetContents(ctx, owner, name, path, opts)
	if err != nil {
		if notFound(resp) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to get file", goerr.V("repo", repo), goerr.V("path", path))
	}
	if file == nil {
		return nil, false, goerr.New("path is a directory, not a file", goerr.V("repo", repo), goerr.V("path", path))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to decode file content", goerr.V("repo", repo), goerr.V("path", path))
	}

	return &model.RepoFile{
		Revision: file.GetSHA(),
		Content:  []byte(content),
	}, true, nil
}

func (c *client) CreateFile(ctx context.Context, repo, path, message string, content []byte, branch string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
		Branch:  github.Ptr(branch),
	}
	if _, _, err := c.githubClient.Repositories.CreateFile(ctx, owner, name, path, opts); err != nil {
		return goerr.Wrap(err, "failed to create file", goerr.V("repo", repo), goerr.V("path", path))
	}
	return nil
}

func (c *client) UpdateFile(ctx context.Context, repo, path, message string, content []byte, revision, branch string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
		SHA:     github.Ptr(revision),
		Branch:  github.Ptr(branch),
	}
	if _, _, err := c.githubClient.Repositories.UpdateFile(ctx, owner, name, path, opts); err != nil {
		return goerr.Wrap(err, "failed to update file", goerr.V("repo", repo), goerr.V("path", path))
	}
	return nil
}

func (c *client) CreateTagAndRelease(ctx context.Context, repo, tag, message, targetSHA string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	tagObj := &github.Tag{
		Tag:     github.Ptr(tag),
		Message: github.Ptr(message),
		Object: &github.GitObject{
			Type: github.Ptr("commit"),
			SHA:  github.Ptr(targetSHA),
		},
	}
	created, _, err := c.githubClient.Git.CreateTag(ctx, owner, name, tagObj)
	if err != nil {
		return goerr.Wrap(err, "failed to create tag object", goerr.V("repo", repo), goerr.V("tag", tag))
	}

	ref := &github.Reference{
		Ref:    github.Ptr("refs/tags/" + tag),
		Object: &github.GitObject{SHA: created.SHA},
	}
	if _, _, err := c.githubClient.Git.CreateRef(ctx, owner, name, ref); err != nil {
		return goerr.Wrap(err, "failed to create tag ref", goerr.V("repo", repo), goerr.V("tag", tag))
	}

	release := &github.RepositoryRelease{
		TagName:         github.Ptr(tag),
		Name:            github.Ptr(tag),
		Body:            github.Ptr(message),
		TargetCommitish: github.Ptr(targetSHA),
	}
	if _, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, name, release); err != nil {
		return goerr.Wrap(err, "failed to create release", goerr.V("repo", repo), goerr.V("tag", tag))
	}

	return nil
}
