// Command osccli reconstructs sub-minute timestamps for grid oscillation
// recordings and lets the result be listed, summarized, previewed and
// exported.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	apperrors "osccli/internal/errors"
	"osccli/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut}
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if terr := a.teardown(context.WithoutCancel(ctx)); err == nil {
		err = terr
	}

	logger := a.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	code := apperrors.NewErrorHandler(logger, errOut).Handle(ctx, err)

	if cerr := infrastructure.CloseLogFile(); cerr != nil && code == apperrors.ExitOK {
		code = apperrors.ExitFailure
	}
	return code
}
