// Package zap adapts go.uber.org/zap to logger.Lite.
package zap

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const callerSkip = 1

// St wraps a sugared zap logger.
type St struct {
	l  *zap.Logger
	sl *zap.SugaredLogger
}

// ParseLevel maps a level name to a zap level. Unknown names fall back to warn.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "error":
		return zap.ErrorLevel
	case "info":
		return zap.InfoLevel
	case "debug":
		return zap.DebugLevel
	default:
		return zap.WarnLevel
	}
}

// New builds a logger writing to stderr. dev switches to the human-readable
// development encoder.
func New(level string, dev bool) (*St, error) {
	var cfg zap.Config

	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level.SetLevel(ParseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(callerSkip))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return FromLogger(l), nil
}

// FromLogger wraps an existing zap logger.
func FromLogger(l *zap.Logger) *St {
	return &St{
		l:  l,
		sl: l.Sugar(),
	}
}

func (o *St) Debugw(msg string, args ...interface{}) {
	o.sl.Debugw(msg, args...)
}

func (o *St) Infow(msg string, args ...interface{}) {
	o.sl.Infow(msg, args...)
}

func (o *St) Warnw(msg string, args ...interface{}) {
	o.sl.Warnw(msg, args...)
}

func (o *St) Errorw(msg string, err interface{}, args ...interface{}) {
	args = append(args, "error", err)
	o.sl.Errorw(msg, args...)
}

// Sync flushes buffered entries.
func (o *St) Sync() {
	if err := o.flush(); err != nil {
		fmt.Fprintln(os.Stderr, "Fail to sync zap-logger:", err)
	}
}

// flush syncs the logger. Pipes and terminals cannot be fsynced, so the
// errors they return are dropped.
func (o *St) flush() error {
	var errs error
	for _, err := range multierr.Errors(o.sl.Sync()) {
		if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
			continue
		}
		errs = multierr.Append(errs, err)
	}
	return errs
}
