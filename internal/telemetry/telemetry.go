// Package telemetry wires up the single shared logger the gridserver
// binary threads through its components.
package telemetry

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger writing structured (text, timestamped)
// entries to stderr. An unrecognised level falls back to Info rather
// than failing startup over a logging flag.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
