package logger

import (
	"log/slog"
	"time"
)

// slowCommandThreshold marks commands worth a warning even when they succeed.
const slowCommandThreshold = 2 * time.Second

// Setup installs the colored handler as the process-wide default logger.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(level)))
}

// LogCommand logs a slash command execution with its outcome and duration.
func LogCommand(name, userID, username string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.String("user_id", userID),
		slog.String("user_name", username),
		slog.Duration("took", duration),
	}

	switch {
	case err != nil:
		slog.Error("Command failed", append(attrs,
			slog.Any("error", err),
			slog.String("status", "failed"),
		)...)
	case duration > slowCommandThreshold:
		slog.Warn("Command executed slowly", append(attrs,
			slog.String("status", "slow"),
		)...)
	default:
		slog.Info("Command completed", append(attrs,
			slog.String("status", "success"),
		)...)
	}
}

// LogRequest logs a handled HTTP request, leveled by its status code.
func LogRequest(method, path string, status int, duration time.Duration, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "web"),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("took", duration),
	}
	baseAttrs = append(baseAttrs, attrs...)

	switch {
	case status >= 500:
		slog.Error("Request handled", baseAttrs...)
	case status >= 400:
		slog.Warn("Request handled", baseAttrs...)
	default:
		slog.Info("Request handled", baseAttrs...)
	}
}

// LogQuery logs a database operation. Successes only show at debug level.
func LogQuery(query string, duration time.Duration, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "db"),
		slog.String("query", query),
		slog.Duration("took", duration),
	}
	baseAttrs = append(baseAttrs, attrs...)

	if err != nil {
		slog.Error("Query failed", append(baseAttrs, slog.Any("error", err))...)
	} else {
		slog.Debug("Query executed", baseAttrs...)
	}
}

// LogSystem logs a lifecycle event.
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs an error event.
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
