package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Process exit codes reported by the command line
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitNotFound  = 3
	ExitStorage   = 4
	ExitCancelled = 130
)

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitCancelled
	}

	switch TypeOf(err) {
	case ErrTypeConfig, ErrTypeValidation:
		return ExitUsage
	case ErrTypeNotFound:
		return ExitNotFound
	case ErrTypeStorage:
		return ExitStorage
	default:
		return ExitFailure
	}
}

// ErrorHandler reports command failures to the user and to the log
type ErrorHandler struct {
	logger *slog.Logger
	out    io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, out io.Writer) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger, out: out}
}

// Handle prints a one-line message for err and returns its exit code
func (h *ErrorHandler) Handle(ctx context.Context, err error) int {
	code := ExitCode(err)
	if code == ExitOK {
		return code
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("exit_code", code),
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		for k, v := range appErr.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	h.logger.ErrorContext(ctx, "Command failed", attrs...)

	fmt.Fprintf(h.out, "error: %s\n", userMessage(err))
	return code
}

// userMessage drops the type prefix for AppErrors
func userMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return err.Error()
}
