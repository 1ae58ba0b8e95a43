// Package log provides the logging interface used throughout
// the emulator, backed by logrus.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface accepted by every component.
// *logrus.Logger and *logrus.Entry both satisfy it.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a Logger that writes plain text to stderr
// at info level.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}

	return l
}

// WithComponent returns a Logger that tags every entry with
// the name of the component producing it. Loggers that are not
// backed by logrus are returned unchanged.
func WithComponent(l Logger, name string) Logger {
	if lr, ok := l.(logrus.FieldLogger); ok {
		return lr.WithField("component", name)
	}
	return l
}

// SetDebug raises a logrus backed Logger to debug level.
func SetDebug(l Logger) {
	switch lr := l.(type) {
	case *logrus.Logger:
		lr.SetLevel(logrus.DebugLevel)
	case *logrus.Entry:
		lr.Logger.SetLevel(logrus.DebugLevel)
	}
}
