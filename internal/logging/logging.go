// Package logging holds the structured logger shared by colback packages.
//
// The library only logs at debug level and never logs an error it also
// returns. Until SetLogger is called, records are discarded.
package logging

import (
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

var discard = slog.New(slog.DiscardHandler)

// Logger returns the active logger.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return discard
}

// SetLogger replaces the active logger. A nil logger restores the discarding
// default.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// With returns a child logger tagged with a component name.
//
//	log := logging.With("compiler")
//	log.Debug("plan compiled", "type", rt)
func With(component string) *slog.Logger {
	return Logger().With("component", component)
}
