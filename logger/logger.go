// Package logger defines the small structured-logging surface the dispatcher
// and the CLI log through.
package logger

// Lite is the subset of a sugared logger the library needs.
// Key-value pairs follow the zap "w" convention: msg, then alternating keys and values.
type Lite interface {
	Debugw(msg string, args ...interface{})
	Infow(msg string, args ...interface{})
	Warnw(msg string, args ...interface{})
	Errorw(msg string, err interface{}, args ...interface{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debugw(msg string, args ...interface{}) {}
func (Nop) Infow(msg string, args ...interface{}) {}
func (Nop) Warnw(msg string, args ...interface{}) {}
func (Nop) Errorw(msg string, err interface{}, args ...interface{}) {}
