package xslog

import (
	"log/slog"
	"time"
)

func Error(err error) slog.Attr {
	const errorKey = "error"
	return slog.String(errorKey, err.Error())
}

func Resource(resource string) slog.Attr {
	const resourceKey = "resource"
	return slog.String(resourceKey, resource)
}

func Date(date string) slog.Attr {
	const dateKey = "date"
	return slog.String(dateKey, date)
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Attempt(attempt int) slog.Attr {
	const attemptKey = "attempt"
	return slog.Int(attemptKey, attempt)
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Remaining(remaining int) slog.Attr {
	const remainingKey = "remaining"
	return slog.Int(remainingKey, remaining)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Reason(reason string) slog.Attr {
	const reasonKey = "reason"
	return slog.String(reasonKey, reason)
}

func Message(message string) slog.Attr {
	const messageKey = "message"
	return slog.String(messageKey, message)
}

func RunID(id string) slog.Attr {
	const runIDKey = "run_id"
	return slog.String(runIDKey, id)
}

func Path(path string) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, path)
}
