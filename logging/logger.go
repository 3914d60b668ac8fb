// Package logging provides the structured logger used across the planner,
// built on zap and fanned out through pluggable Appenders.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a named, leveled, structured logger. The embedded SugaredLogger gives
// callers the usual Debugf/Infof/Warnf/Errorf family; the C-prefixed methods below
// additionally accept a context, for symmetry with call sites that thread one through
// but have no request-scoped fields to attach yet.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a Logger named name, writing every entry at or above level through
// each of appenders. With no appenders it writes human-readable lines to stdout.
func NewLogger(name string, level zapcore.Level, appenders ...Appender) Logger {
	if len(appenders) == 0 {
		appenders = []Appender{NewStdoutAppender()}
	}
	core := &appenderCore{appenders: appenders, level: level}
	return Logger{zap.New(core, zap.AddCaller()).Named(name).Sugar()}
}

// NewTestLogger returns a debug-level Logger writing to stdout, for use in tests.
func NewTestLogger(name string) Logger {
	return NewLogger(name, zapcore.DebugLevel)
}

// CDebugf logs at debug level.
func (l Logger) CDebugf(_ context.Context, template string, args ...interface{}) {
	l.Debugf(template, args...)
}

// CInfof logs at info level.
func (l Logger) CInfof(_ context.Context, template string, args ...interface{}) {
	l.Infof(template, args...)
}

// CWarnf logs at warn level.
func (l Logger) CWarnf(_ context.Context, template string, args ...interface{}) {
	l.Warnf(template, args...)
}

// CErrorf logs at error level.
func (l Logger) CErrorf(_ context.Context, template string, args ...interface{}) {
	l.Errorf(template, args...)
}

// appenderCore is a zapcore.Core that fans every accepted entry out to a list of
// Appenders, rather than writing to a single encoder/sink pair the way zapcore.NewCore
// does. Field accumulation from repeated `With` calls is preserved across the fan-out.
type appenderCore struct {
	appenders []Appender
	level     zapcore.Level
	fields    []zapcore.Field
}

func (c *appenderCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.level
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &appenderCore{appenders: c.appenders, level: c.level, fields: merged}
}

func (c *appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Write(entry, all); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *appenderCore) Sync() error {
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
