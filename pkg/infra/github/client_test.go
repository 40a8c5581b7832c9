package github_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	githubinfra "github.com/m-mizutani/mailgate/pkg/infra/github"
)

func TestClient_RejectsMalformedRepoIdentifier(t *testing.T) {
	client := githubinfra.NewClient("dummy-token")
	gt.Value(t, client).NotNil()

	ctx := context.Background()

	for _, repo := range []string{"noslash", "/name", "owner/", ""} {
		t.Run("repo="+repo, func(t *testing.T) {
			_, err := client.BranchExists(ctx, repo, "main")
			gt.Error(t, err)

			_, err = client.BranchHead(ctx, repo, "main")
			gt.Error(t, err)

			gt.Error(t, client.CreateBranch(ctx, repo, "feature", "sha"))

			_, err = client.PathExists(ctx, repo, "docs", "main")
			gt.Error(t, err)

			_, _, err = client.GetFile(ctx, repo, "readme.md", "main")
			gt.Error(t, err)

			gt.Error(t, client.CreateFile(ctx, repo, "readme.md", "msg", []byte("x"), "main"))
			gt.Error(t, client.UpdateFile(ctx, repo, "readme.md", "msg", []byte("x"), "rev", "main"))
			gt.Error(t, client.CreateTagAndRelease(ctx, repo, "v1", "msg", "sha"))
		})
	}
}

func TestClient_WithRealAPI(t *testing.T) {
	// Integration test against the real GitHub API
	token := os.Getenv("TEST_GITHUB_TOKEN")
	repo := os.Getenv("TEST_GITHUB_REPO")

	if token == "" || repo == "" {
		t.Skip("TEST_GITHUB_TOKEN and TEST_GITHUB_REPO not provided")
	}

	client := githubinfra.NewClient(token)
	ctx := context.Background()

	exists, err := client.BranchExists(ctx, repo, "main")
	gt.NoError(t, err)
	gt.Value(t, exists).Equal(true)

	sha := gt.R1(client.BranchHead(ctx, repo, "main")).NoError(t)
	gt.Value(t, sha).NotEqual("")
}
