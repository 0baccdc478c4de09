package core

import (
	"github.com/rs/zerolog"
)

type Log interface {
	Info() *zerolog.Event
	Debug() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

type nopLog struct {
	l zerolog.Logger
}

func (n nopLog) Info() *zerolog.Event  { return n.l.Info() }
func (n nopLog) Debug() *zerolog.Event { return n.l.Debug() }
func (n nopLog) Warn() *zerolog.Event  { return n.l.Warn() }
func (n nopLog) Error() *zerolog.Event { return n.l.Error() }

// NopLog discards everything. Used when the caller passes a nil Log.
func NopLog() Log { return nopLog{l: zerolog.Nop()} }

func ensureLog(log Log) Log {
	if log == nil {
		return NopLog()
	}
	return log
}
