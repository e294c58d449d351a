package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrInterrupted is the cancellation cause of a context stopped by SIGINT or
// SIGTERM.
var ErrInterrupted = errors.New("interrupted by user")

// InterruptHandler turns the first SIGINT or SIGTERM during a long write into
// a context cancellation and a one-time notice on writer.
type InterruptHandler struct {
	writer    io.Writer
	cancel    context.CancelCauseFunc
	operation string
	once      sync.Once
	fired     atomic.Bool
}

// NewInterruptHandler creates a handler that writes its notice to writer, or
// to stderr when writer is nil.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{writer: writer}
}

// HandleInterrupts derives a context from ctx that is canceled with
// ErrInterrupted on the first signal. operation names the work in the notice,
// e.g. "Export". Call stop once the work is done to release the signal.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	h.cancel = cancel
	h.operation = operation

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.interrupt()
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

func (h *InterruptHandler) interrupt() {
	h.once.Do(func() {
		h.fired.Store(true)
		h.notify()
		if h.cancel != nil {
			h.cancel(ErrInterrupted)
		}
	})
}

func (h *InterruptHandler) notify() {
	operation := h.operation
	if operation == "" {
		operation = "Operation"
	}
	msg := "\n" + FormatWarning(operation+" interrupted!") +
		"\n" + FormatInfo("Rows of the unfinished batch are not kept.") + "\n"
	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.fired.Load()
}
