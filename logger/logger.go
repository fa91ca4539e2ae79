// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger tags every line with the mpv client name, so several plugin
// instances in one mpv log can be told apart.
type Logger struct {
	entry *logrus.Entry
}

var _ LoggerInterface = (*Logger)(nil)

// New logs to out at the given level. An unknown level falls back to info.
func New(out io.Writer, client, level string) *Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return &Logger{entry: log.WithField("client", client)}
}

func (l *Logger) Print(s string) {
	l.entry.Info(s)
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.entry.Infof(s, as...)
}

func (l *Logger) PrintError(source string, err error) {
	l.entry.WithField("source", source).Error(err)
}

func (l *Logger) Debugf(s string, as ...interface{}) {
	l.entry.Debugf(s, as...)
}
