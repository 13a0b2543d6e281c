// Package mylogger wraps zap with helpers that stamp the active trace and
// span ids onto every entry, so log lines can be joined with traces.
package mylogger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func withTrace(ctx context.Context, fields []zap.Field) []zap.Field {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return fields
	}
	return append(fields,
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

func emit(ctx context.Context, logger *zap.Logger, lvl zapcore.Level, msg string, fields []zap.Field) {
	logger.WithOptions(zap.AddCallerSkip(2)).Log(lvl, msg, withTrace(ctx, fields)...)
}

func Debug(ctx context.Context, logger *zap.Logger, msg string, fields ...zap.Field) {
	emit(ctx, logger, zapcore.DebugLevel, msg, fields)
}

func Info(ctx context.Context, logger *zap.Logger, msg string, fields ...zap.Field) {
	emit(ctx, logger, zapcore.InfoLevel, msg, fields)
}

func Warn(ctx context.Context, logger *zap.Logger, msg string, fields ...zap.Field) {
	emit(ctx, logger, zapcore.WarnLevel, msg, fields)
}

func Error(ctx context.Context, logger *zap.Logger, msg string, fields ...zap.Field) {
	emit(ctx, logger, zapcore.ErrorLevel, msg, fields)
}
