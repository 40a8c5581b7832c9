package config

import "github.com/urfave/cli/v3"

// IMAP holds mailbox connection configuration
type IMAP struct {
	Server   string
	Account  string
	Password string `masq:"secret"`
	Mailbox  string
}

// Flags returns CLI flags for IMAP configuration
func (c *IMAP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "imap-server",
			Usage:       "IMAP server address (host:port, implicit TLS)",
			Required:    true,
			Destination: &c.Server,
			Sources:     cli.EnvVars("MAILGATE_IMAP_SERVER"),
		},
		&cli.StringFlag{
			Name:        "imap-account",
			Usage:       "IMAP account name",
			Required:    true,
			Destination: &c.Account,
			Sources:     cli.EnvVars("MAILGATE_IMAP_ACCOUNT"),
		},
		&cli.StringFlag{
			Name:        "imap-password",
			Usage:       "IMAP account password",
			Required:    true,
			Destination: &c.Password,
			Sources:     cli.EnvVars("MAILGATE_IMAP_PASSWORD"),
		},
		&cli.StringFlag{
			Name:        "imap-mailbox",
			Usage:       "Mailbox to watch",
			Value:       "INBOX",
			Destination: &c.Mailbox,
			Sources:     cli.EnvVars("MAILGATE_IMAP_MAILBOX"),
		},
	}
}
