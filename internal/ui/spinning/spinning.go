// Package spinning provides a friendly spinning clock (or some other spinning symbols)
// to show while the attack animation runs, and terminal handling on interruption.
package spinning

import (
	"context"
	"fmt"
	"io"
	"k8s.io/klog/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Spinning symbol display, see New.
type Spinning struct {
	wg     sync.WaitGroup
	cancel func()
}

// Interval between symbols.
var Interval = 250 * time.Millisecond

var (
	ThemeAscii = []rune("|/-\\")
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeClock = []rune("🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚🕛")

	// Theme defaults to ThemeClock, but it can be set to anything else before
	// creating a Spinning.
	Theme = ThemeClock
)

// SafeInterrupt will capture SigInt (Ctrl+C) and SigTerm and call the provided onInterrupt.
// If the program haven't exited after gracePeriod, it will call Reset to reset the terminal
// and exit.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		Reset()
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset() {
	fmt.Print("\033[?25h\033[39;49;0m\n") // Restore cursor and colors.
}

// New starts a spinning display on the standard output, that runs on a separate goroutine.
// It stops when Spinning.Done is called or ctx is cancelled.
func New(ctx context.Context) *Spinning {
	return NewTo(ctx, os.Stdout)
}

// NewTo is like New, but writes to w.
func NewTo(ctx context.Context, w io.Writer) *Spinning {
	s := &Spinning{}
	ctx, s.cancel = context.WithCancel(ctx)
	theme := Theme
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()
		// Hide cursor while spinning.
		_, _ = fmt.Fprint(w, "\033[?25l")
		defer func() { _, _ = fmt.Fprint(w, "\033[?25h") }()

		_, _ = fmt.Fprint(w, "  ")
		for idx := 0; ; idx = (idx + 1) % len(theme) {
			_, _ = fmt.Fprintf(w, "\b\b%c", theme[idx])
			select {
			case <-ctx.Done():
				_, _ = fmt.Fprint(w, "\b\b")
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// Done stops the spinning and waits for it to clean up. It can be called more than once.
func (s *Spinning) Done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
}

// Pause shows the spinning symbols for the duration d, or until ctx is done. It returns
// ctx.Err() if it was interrupted. A non-positive d returns immediately.
func Pause(ctx context.Context, d time.Duration) error {
	return PauseTo(ctx, os.Stdout, d)
}

// PauseTo is like Pause, but writes to w.
func PauseTo(ctx context.Context, w io.Writer, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	s := NewTo(ctx, w)
	defer s.Done()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
