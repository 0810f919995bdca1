package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	lferrors "github.com/YuminosukeSato/linfit/pkg/errors"
)

// ErrFmtHandler is a slog handler that expands errors from cockroachdb/errors:
// it adds the captured stack trace and, for linfit's typed errors, a stable
// error code.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the given slog handler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var found error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				found = err
			}
			return false
		}
		return true
	})
	if found != nil {
		if stacktrace := extractStacktrace(found); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		if code := ErrorCode(found); code != "" {
			r.AddAttrs(slog.String(ErrorCodeKey, code))
		}
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// ErrorCode maps linfit's typed errors to the Error* code constants.
// It returns "" for other errors.
func ErrorCode(err error) string {
	var dimErr *lferrors.DimensionError
	var numErr *lferrors.NumericalInstabilityError
	switch {
	case errors.As(err, &dimErr):
		return ErrorDimensionMismatch
	case errors.Is(err, lferrors.ErrDegenerateInput):
		return ErrorDegenerateInput
	case errors.Is(err, lferrors.ErrInvalidLabel):
		return ErrorInvalidLabel
	case errors.As(err, &numErr):
		return ErrorNumerical
	}
	return ""
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
