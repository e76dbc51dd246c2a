// Package log provides context-scoped structured logging for promptbridge.
//
// It wraps go.uber.org/zap so call sites never touch zap.Field directly.
// The http client and the executor log through this package; the other
// packages do not log.
package log

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base atomic.Pointer[zap.Logger]

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}

	base.Store(l)
}

// SetLogger replaces the process-wide base logger. Intended for CLI/service
// wiring; libraries should not call this from within request handling.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}

	base.Store(l)
}

type ctxKey struct{}

// WithLogger attaches a logger to ctx, scoping subsequent log calls to it.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func from(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}

	return base.Load()
}

// Field is a typed log field, matching zap.Field.
type Field = zap.Field

func String(key, val string) Field                 { return zap.String(key, val) }
func Int(key string, val int) Field                { return zap.Int(key, val) }
func Bool(key string, val bool) Field              { return zap.Bool(key, val) }
func Any(key string, val any) Field                { return zap.Any(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

// Cause attaches an error under the conventional "error" key.
func Cause(err error) Field { return zap.Error(err) }

func Debug(ctx context.Context, msg string, fields ...Field) { from(ctx).Debug(msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { from(ctx).Info(msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { from(ctx).Warn(msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { from(ctx).Error(msg, fields...) }

// DebugEnabled reports whether the context's logger would emit a Debug
// record, letting call sites skip building expensive debug payloads
// (full JSON bodies, JSONPath dumps) when debug logging is off.
func DebugEnabled(ctx context.Context) bool {
	return from(ctx).Core().Enabled(zapcore.DebugLevel)
}
