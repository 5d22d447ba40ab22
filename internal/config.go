package internal

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMaxSteps bounds the instructions a single run may execute
const DefaultMaxSteps = 10_000_000

// Options configures a compilation unit
type Options struct {
	// MaxSteps stops execution after this many instructions, zero means
	// no limit
	MaxSteps int
	NoColor  bool
	LogLevel string

	// Logger defaults to the logrus standard logger
	Logger *logrus.Logger
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		MaxSteps: DefaultMaxSteps,
		LogLevel: logrus.InfoLevel.String(),
	}
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

// Validate checks the options and applies the log level
func (o Options) Validate() error {
	if o.MaxSteps < 0 {
		return errors.Errorf("max steps must not be negative, got %d", o.MaxSteps)
	}
	if o.LogLevel == "" {
		return nil
	}
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", o.LogLevel)
	}
	o.logger().SetLevel(level)
	return nil
}
