// Package caliperlog provides the default backing for caliper.Logger,
// the interface a Registry uses to report a rejected duplicate
// registration (and an ExpDecayReservoir, when given one, a rescale).
// DefaultRegistry installs it; nothing installs it on reservoirs. It exists so the
// core package can accept any Printf-shaped logger without hard-wiring a
// specific logging library into its public API.
package caliperlog

import "github.com/sirupsen/logrus"

// Logger adapts a *logrus.Logger to the single-method shape consumed by
// caliper.Registry.Logger.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger backed by a logrus.Logger configured with sensible
// defaults for a library: text formatting, warn level, stderr output is
// left to logrus' own default.
func New() *Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return &Logger{entry: logrus.NewEntry(l).WithField("component", "caliper")}
}

// Printf implements caliper.Logger.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}
