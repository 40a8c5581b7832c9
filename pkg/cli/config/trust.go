package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	cli "github.com/urfave/cli/v3"
)

// Trust holds the sender and repository whitelists. Entries can be given as
// repeatable flags, a TOML policy file, or both; the sets are merged.
type Trust struct {
	Senders    []string
	Repos      []string
	PolicyFile string
}

// policy is the TOML policy file schema:
//
//	senders = ["alice@example.com"]
//	repositories = ["example/notes"]
type policy struct {
	Senders      []string `toml:"senders"`
	Repositories []string `toml:"repositories"`
}

// Flags returns CLI flags for trust configuration
func (c *Trust) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "allow-sender",
			Usage:       "Whitelisted sender address (repeatable)",
			Destination: &c.Senders,
			Sources:     cli.EnvVars("MAILGATE_ALLOW_SENDERS"),
		},
		&cli.StringSliceFlag{
			Name:        "allow-repo",
			Usage:       "Whitelisted repository owner/name (repeatable)",
			Destination: &c.Repos,
			Sources:     cli.EnvVars("MAILGATE_ALLOW_REPOS"),
		},
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "TOML file with senders and repositories arrays",
			Destination: &c.PolicyFile,
			Sources:     cli.EnvVars("MAILGATE_POLICY_FILE"),
		},
	}
}

// Load merges flag values with the policy file, if one is configured.
func (c *Trust) Load() (senders, repos []string, err error) {
	senders = append(senders, c.Senders...)
	repos = append(repos, c.Repos...)

	if c.PolicyFile == "" {
		return senders, repos, nil
	}

	data, err := os.ReadFile(c.PolicyFile)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", c.PolicyFile))
	}
	var p policy
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", c.PolicyFile))
	}

	senders = append(senders, p.Senders...)
	repos = append(repos, p.Repositories...)
	return senders, repos, nil
}
