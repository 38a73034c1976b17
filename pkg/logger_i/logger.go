package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"go.opentelemetry.io/otel/trace"
)

// Logger resolves slog.Default() on every call, so package level loggers
// created before Init still follow the handler Init installs.
type Logger struct {
	attrs []any
}

// Init installs the process wide handler: text for local runs, json in prod.
func Init(isProd bool) {
	InitWithWriter(os.Stdout, isProd)
}

func InitWithWriter(w io.Writer, isProd bool) {
	options := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}

	var handler slog.Handler
	if isProd {
		options.Level = config.LOG_LEVEL_PROD
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func NewLogger(section string) *Logger {
	return &Logger{attrs: []any{"component", section}}
}

func (l *Logger) inner() *slog.Logger {
	return slog.Default().With(l.attrs...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logWithSource(context.Background(), slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logWithSource(context.Background(), slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logWithSource(context.Background(), slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logWithSource(context.Background(), slog.LevelDebug, msg, args...)
}

func (l *Logger) logWithSource(ctx context.Context, level slog.Level, msg string, args ...any) {
	inner := l.inner()
	if !inner.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	// Skip 3 levels: runtime.Callers, logWithSource, and the Info/Err/Dbg wrapper
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = inner.Handler().Handle(ctx, r)
}

func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{attrs: attrs}
}

// FromContext tags the logger with the request trace id and, when a span is
// recording, the otel trace/span ids so log lines can be joined to traces.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	out := l
	if traceId, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && traceId != "" {
		out = out.With("traceId", traceId)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		out = out.With("otelTraceId", sc.TraceID().String(), "spanId", sc.SpanID().String())
	}
	return out
}
