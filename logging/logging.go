// Package logging configures logrus for lightsout.
//
// The terminal UI owns stdout, so logs go to a file; if it cannot be opened
// logging is discarded rather than stopping the game.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup points the standard logrus logger at path with the given level.
// It returns a close function for the log file.
func Setup(level, path string) (func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}
	logrus.SetOutput(f)
	return f.Close, nil
}

// Stderr sends logs to stderr, for modes without a full-screen UI.
func Stderr(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	return nil
}
