// Package signal provides signal handling for graceful shutdown of the
// scenario-sim CLI.
//
// SetupSignalHandler registers handlers for SIGINT and SIGTERM so an
// in-flight remote request is abandoned by cancelling its context.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SetupSignalHandler registers SIGINT and SIGTERM handlers.
// When a signal is received, it calls onInterrupt (if non-nil) with the
// signal, then cancels the context.
//
// The returned stop function unregisters the handler and waits for its
// goroutine to exit. It is safe to call more than once.
//
// Example usage:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	stop := signal.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
//	    logging.Warn("interrupted: " + sig.String())
//	})
//	defer stop()
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func(os.Signal)) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
			<-done
		})
	}
}
