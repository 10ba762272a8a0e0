package testutil

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedLogger returns a logger that records every entry at debug level
// and above, plus the recorded logs for assertions.
func NewObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// HasField reports whether any entry with message msg carries key=value.
func HasField(logs *observer.ObservedLogs, msg, key string, value interface{}) bool {
	for _, entry := range logs.FilterMessage(msg).All() {
		if v, ok := entry.ContextMap()[key]; ok && v == value {
			return true
		}
	}
	return false
}
