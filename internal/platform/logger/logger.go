package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Printf(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	WithField(key string, value interface{}) *logrus.Entry
}

// New returns a logrus logger: JSON at info level in prod, text at debug
// level elsewhere.
func New(env string) Logger {
	l := logrus.New()

	if env == "prod" {
		l.Formatter = &logrus.JSONFormatter{}
		l.Level = logrus.InfoLevel
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
		l.Level = logrus.DebugLevel
	}

	return l.WithField("env", env)
}

// Discard is a logger for tests.
func Discard() Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l.WithField("env", "test")
}
