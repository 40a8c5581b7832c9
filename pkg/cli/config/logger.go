package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger holds logger configuration. When File is set, log entries go to
// both stdout and a size-rotated file with a bounded number of backups.
type Logger struct {
	Level          string
	JSON           bool
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("MAILGATE_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "log-json",
			Usage:       "Output logs in JSON format",
			Value:       false,
			Destination: &c.JSON,
			Sources:     cli.EnvVars("MAILGATE_LOG_JSON"),
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Also write JSON logs to this file, rotated by size",
			Destination: &c.File,
			Sources:     cli.EnvVars("MAILGATE_LOG_FILE"),
		},
		&cli.IntFlag{
			Name:        "log-file-max-size",
			Usage:       "Max size of the log file in MB before rotation",
			Value:       10,
			Destination: &c.FileMaxSizeMB,
			Sources:     cli.EnvVars("MAILGATE_LOG_FILE_MAX_SIZE"),
		},
		&cli.IntFlag{
			Name:        "log-file-max-backups",
			Usage:       "Number of rotated log files to keep",
			Value:       5,
			Destination: &c.FileMaxBackups,
			Sources:     cli.EnvVars("MAILGATE_LOG_FILE_MAX_BACKUPS"),
		},
	}
}

// Configure configures and returns a logger. Fields tagged masq:"secret" in
// logged values (mailbox password, API token) are redacted.
func (c *Logger) Configure() (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	redact := masq.New(masq.WithTag("secret"))
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch {
	case c.File != "":
		w := io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.FileMaxSizeMB,
			MaxBackups: c.FileMaxBackups,
		})
		handler = slog.NewJSONHandler(w, opts)
	case c.JSON:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = clog.New(
			clog.WithWriter(os.Stdout),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
		)
	}

	return slog.New(handler), nil
}
