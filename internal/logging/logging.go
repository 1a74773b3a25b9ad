// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls logger setup.
type Options struct {
	Level  string // debug, info, warn, error
	JSON   bool
	Debug  bool // forces debug level
	Quiet  bool // forces error level
	Output io.Writer
}

// Setup configures the standard logrus logger and returns it.
//
// LOG_MODE (quiet, verbose, debug) and LOG_FORMAT (json, text) override opts.
// Output defaults to stderr; stdout is reserved for the stdio transport.
func Setup(opts Options) *logrus.Logger {
	applyEnv(&opts)

	log := logrus.StandardLogger()
	configure(log, opts)
	return log
}

// New returns a standalone logger configured like Setup, without env overrides.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	configure(log, opts)
	return log
}

func configure(log *logrus.Logger, opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetLevel(level(opts))

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

func level(opts Options) logrus.Level {
	switch {
	case opts.Quiet:
		return logrus.ErrorLevel
	case opts.Debug:
		return logrus.DebugLevel
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func applyEnv(opts *Options) {
	switch os.Getenv("LOG_MODE") {
	case "quiet":
		opts.Quiet = true
		opts.Debug = false
	case "verbose", "debug":
		opts.Debug = true
		opts.Quiet = false
	}

	switch os.Getenv("LOG_FORMAT") {
	case "json":
		opts.JSON = true
	case "text":
		opts.JSON = false
	}
}
