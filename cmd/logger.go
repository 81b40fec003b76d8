package cmd

import (
	"github.com/sirupsen/logrus"
)

// newLogger returns the shared logger, raised to DebugLevel when verbose is
// set. Without verbose the LOG_LEVEL setting is kept.
func newLogger(verbose bool) *logrus.Logger {
	log := Logger
	if log == nil {
		log = logrus.New()
	}

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
