// Copyright 2021 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log provides the logger used across pcirom.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger describes a logger to be used in pcirom.
type Logger interface {
	// Debugf logs a diagnostic message. Decoders report absorbed
	// anomalies (missing PCI data, quirks, padding) on this level.
	Debugf(format string, args ...interface{})

	// Warnf logs an warning message.
	Warnf(format string, args ...interface{})

	// Errorf logs an error message.
	Errorf(format string, args ...interface{})

	// Fatalf logs a fatal message and immediately exits the application
	// with os.Exit.
	Fatalf(format string, args ...interface{})
}

// DefaultLogger is the logger used by default everywhere within pcirom.
var DefaultLogger Logger

func init() {
	DefaultLogger = New(os.Stderr)
}

// New returns a Logger writing text lines to w. Debug messages are
// suppressed until SetLevel raises the verbosity.
func New(w io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	})
	return logrusWrapper{Logger: l.WithField("pkg", "pcirom")}
}

type logrusWrapper struct {
	Logger *logrus.Entry
}

// Debugf implements Logger.
func (logger logrusWrapper) Debugf(format string, args ...interface{}) {
	logger.Logger.Debugf(format, args...)
}

// Warnf implements Logger.
func (logger logrusWrapper) Warnf(format string, args ...interface{}) {
	logger.Logger.Warnf(format, args...)
}

// Errorf implements Logger.
func (logger logrusWrapper) Errorf(format string, args ...interface{}) {
	logger.Logger.Errorf(format, args...)
}

// Fatalf implements Logger.
func (logger logrusWrapper) Fatalf(format string, args ...interface{}) {
	logger.Logger.Fatalf(format, args...)
}

// SetLevel changes the verbosity of DefaultLogger. Valid levels are the
// logrus level names ("debug", "info", "warning", "error"). Loggers that
// were not created by New are left untouched.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	if w, ok := DefaultLogger.(logrusWrapper); ok {
		w.Logger.Logger.SetLevel(lvl)
	}
	return nil
}

// Discard is a Logger that drops everything except Fatalf, which still
// terminates the process.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debugf(string, ...interface{}) {}
func (discard) Warnf(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}
func (discard) Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}

// Debugf logs a diagnostic message.
func Debugf(format string, args ...interface{}) {
	DefaultLogger.Debugf(format, args...)
}

// Warnf logs an warning message.
func Warnf(format string, args ...interface{}) {
	DefaultLogger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	DefaultLogger.Errorf(format, args...)
}

// Fatalf logs a fatal message and immediately exits the application
// with os.Exit (which is expected to be called by the DefaultLogger.Fatalf).
func Fatalf(format string, args ...interface{}) {
	DefaultLogger.Fatalf(format, args...)
}
