// Package log wraps zap behind package-level helpers shared by every command
// in this module.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var (
	base    *zap.Logger
	sugared *zap.SugaredLogger
)

// Init builds the process logger. Debug selects the human-readable
// development encoder, otherwise JSON production output is used.
func Init(debug bool) error {
	var logger *zap.Logger
	var err error

	if debug {
		logger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		logger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}

	base = logger
	sugared = logger.Sugar()
	return nil
}

// l returns the sugared logger, installing a production logger when Init was
// never called so early failures still log somewhere.
func l() *zap.SugaredLogger {
	if sugared == nil {
		base, _ = zap.NewProduction(zap.AddCallerSkip(1))
		sugared = base.Sugar()
	}
	return sugared
}

// GetZapLogger returns the unsugared logger for integrations that want one,
// like the GORM adapter.
func GetZapLogger() *zap.Logger {
	l()
	return base
}

// GetSugaredLogger returns the shared sugared logger.
func GetSugaredLogger() *zap.SugaredLogger {
	return l()
}

// Sync flushes buffered entries. Call it before process exit.
func Sync() {
	if sugared != nil {
		sugared.Sync()
	}
}

func Debug(args ...interface{}) {
	l().Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	l().Debugf(template, args...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	l().Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	l().Info(args...)
}

func Infof(template string, args ...interface{}) {
	l().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	l().Infow(msg, keysAndValues...)
}

func Warn(args ...interface{}) {
	l().Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	l().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	l().Warnw(msg, keysAndValues...)
}

func Error(args ...interface{}) {
	l().Error(args...)
}

func Errorf(template string, args ...interface{}) {
	l().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	l().Errorw(msg, keysAndValues...)
}

func Fatal(args ...interface{}) {
	l().Fatal(args...)
}

func Fatalf(template string, args ...interface{}) {
	l().Fatalf(template, args...)
}
