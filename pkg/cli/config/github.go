package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub configuration
type GitHub struct {
	Token         string `masq:"secret"`
	DefaultRepo   string
	DefaultBranch string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Required:    true,
			Destination: &c.Token,
			Sources:     cli.EnvVars("MAILGATE_GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "default-repo",
			Usage:       "Default repository (owner/name) when the subject has no repo clause",
			Required:    true,
			Destination: &c.DefaultRepo,
			Sources:     cli.EnvVars("MAILGATE_DEFAULT_REPO"),
		},
		&cli.StringFlag{
			Name:        "default-branch",
			Usage:       "Default branch, also the fork point for new branches",
			Value:       "main",
			Destination: &c.DefaultBranch,
			Sources:     cli.EnvVars("MAILGATE_DEFAULT_BRANCH"),
		},
	}
}
