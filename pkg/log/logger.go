package log

import (
	"context"
	"maps"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Logger writes structured entries through an asynchronous Buffer.
type Logger struct {
	level  atomic.Int32
	buffer *Buffer
	fields map[string]any
}

// New creates a logger at the given minimum level.
func New(level Level, transporters ...Transporter) *Logger {
	l := &Logger{
		buffer: NewBuffer(DefaultCapacity, transporters...),
		fields: map[string]any{},
	}
	l.level.Store(int32(level))
	return l
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// With returns a child logger sharing the buffer with extra base fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = make(map[string]any, len(keysAndValues)/2)
	}
	addPairs(fields, keysAndValues)
	child := &Logger{buffer: l.buffer, fields: fields}
	child.level.Store(l.level.Load())
	return child
}

// Close flushes pending entries and closes the transporters.
func (l *Logger) Close() {
	l.buffer.Close()
}

// Dropped reports entries lost to buffer overflow.
func (l *Logger) Dropped() int64 {
	return l.buffer.DroppedCount()
}

func (l *Logger) log(ctx context.Context, level Level, msg string, keysAndValues []any) {
	if !l.Level().Enables(level) {
		return
	}
	entry := NewEntry(level, msg)
	entry.Caller = caller(3)
	maps.Copy(entry.Fields, l.fields)
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		maps.Copy(entry.Fields, FieldsFromContext(ctx))
	}
	addPairs(entry.Fields, keysAndValues)
	l.buffer.Send(*entry)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func (l *Logger) Trace(msg string, kv ...any) { l.log(nil, Trace, msg, kv) }
func (l *Logger) Debug(msg string, kv ...any) { l.log(nil, Debug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(nil, Info, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(nil, Warn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(nil, Error, msg, kv) }

// Fatal logs at Fatal level. Exiting is left to the caller.
func (l *Logger) Fatal(msg string, kv ...any) { l.log(nil, Fatal, msg, kv) }

func (l *Logger) TraceCtx(ctx context.Context, msg string, kv ...any) { l.log(ctx, Trace, msg, kv) }
func (l *Logger) DebugCtx(ctx context.Context, msg string, kv ...any) { l.log(ctx, Debug, msg, kv) }
func (l *Logger) InfoCtx(ctx context.Context, msg string, kv ...any)  { l.log(ctx, Info, msg, kv) }
func (l *Logger) WarnCtx(ctx context.Context, msg string, kv ...any)  { l.log(ctx, Warn, msg, kv) }
func (l *Logger) ErrorCtx(ctx context.Context, msg string, kv ...any) { l.log(ctx, Error, msg, kv) }

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
	discardOnce   sync.Once
	discardLogger *Logger
)

// SetDefault installs the logger used by the Global functions.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the installed logger, or a shared logger that discards
// everything when none was set.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}
	discardOnce.Do(func() {
		discardLogger = New(Fatal+1, discard{})
	})
	return discardLogger
}

func GlobalDebug(msg string, kv ...any) { Default().log(nil, Debug, msg, kv) }
func GlobalInfo(msg string, kv ...any)  { Default().log(nil, Info, msg, kv) }
func GlobalWarn(msg string, kv ...any)  { Default().log(nil, Warn, msg, kv) }
func GlobalError(msg string, kv ...any) { Default().log(nil, Error, msg, kv) }

func GlobalDebugCtx(ctx context.Context, msg string, kv ...any) { Default().log(ctx, Debug, msg, kv) }
func GlobalInfoCtx(ctx context.Context, msg string, kv ...any)  { Default().log(ctx, Info, msg, kv) }
func GlobalWarnCtx(ctx context.Context, msg string, kv ...any)  { Default().log(ctx, Warn, msg, kv) }
func GlobalErrorCtx(ctx context.Context, msg string, kv ...any) { Default().log(ctx, Error, msg, kv) }
