package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler turns SIGINT/SIGTERM into context cancellation and tells
// the user what happened to the request in flight.
type InterruptHandler struct {
	writer      io.Writer
	signals     chan os.Signal
	upload      string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer:  writer,
		signals: make(chan os.Signal, 1),
	}
}

// HandleInterrupts returns a context canceled on interrupt. upload names the
// file being classified. The returned stop function releases the signal
// handler and must be called when the command finishes.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, upload string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.upload = upload
	h.mu.Unlock()

	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-h.signals:
			h.mu.Lock()
			if !h.interrupted {
				h.interrupted = true
				h.showInterruptMessage()
			}
			h.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(h.signals)
		cancel()
	}
}

// showInterruptMessage displays the interrupt notice. Callers hold h.mu.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n" + FormatWarning("Classification interrupted!")
	if h.upload != "" {
		msg += "\n" + FormatInfo(fmt.Sprintf("The upload of %s was abandoned. Run the command again to retry.", h.upload))
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
