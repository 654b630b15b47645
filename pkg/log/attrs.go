package log

import "log/slog"

func FlowID[T ~string](id T) slog.Attr {
	return slog.String("flow_id", string(id))
}

func VersionID[T ~string](id T) slog.Attr {
	return slog.String("version_id", string(id))
}

func ProjectID[T ~string](id T) slog.Attr {
	return slog.String("project_id", string(id))
}

func UserID[T ~string](id T) slog.Attr {
	return slog.String("user_id", string(id))
}

func Operation[T ~string](kind T) slog.Attr {
	return slog.String("operation", string(kind))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
