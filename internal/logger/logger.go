// Package logger builds the hclog loggers used by the marginalia command.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "MARGINALIA_LOG_LEVEL"

// Options configures a logger.
type Options struct {
	Name       string
	Level      string
	JSONFormat bool
	Output     io.Writer
}

// New creates an hclog.Logger. The level is taken from MARGINALIA_LOG_LEVEL
// when set, then from opts.Level, defaulting to INFO. Output defaults to
// stderr so that stdout stays free for command results.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        opts.Name,
		Level:       DetermineLevel(opts.Level, out),
		JSONFormat:  opts.JSONFormat,
		DisableTime: true,
		Output:      out,
	})
}

// DetermineLevel returns the level from the environment, then from
// configured, then INFO. Unrecognized names are reported on warnOut.
func DetermineLevel(configured string, warnOut io.Writer) hclog.Level {
	if env := os.Getenv(EnvLogLevel); env != "" {
		return ParseLevel(env, warnOut)
	}
	if configured == "" {
		return hclog.Info
	}
	return ParseLevel(configured, warnOut)
}

// ParseLevel converts a level name to hclog.Level.
func ParseLevel(levelStr string, warnOut io.Writer) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		if warnOut == nil {
			warnOut = os.Stderr
		}
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      warnOut,
		}).Warn("unrecognized log level, defaulting to INFO", "provided_level", levelStr)
		return hclog.Info
	}
}
