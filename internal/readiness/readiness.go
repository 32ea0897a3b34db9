// Package readiness decides when a freshly launched batch of processes may be
// considered up.
//
// TimerWaiter sleeps for a fixed settle window and never looks at the
// processes. ProbeWaiter opens TCP connections to every launched host:port
// until all of them accept or a deadline passes.
package readiness

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"relayctl/internal/inventory"
	"relayctl/pkg/logging"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/clock"
)

const subsystem = "Readiness"

// Waiter blocks until targets are ready, ctx is done or the waiter gives up.
type Waiter interface {
	Wait(ctx context.Context, targets []inventory.HostEntry) error
}

// TimerWaiter waits a fixed duration.
type TimerWaiter struct {
	duration time.Duration
	clock    clock.Clock
}

// NewTimerWaiter returns a waiter sleeping d on clk. A nil clk is the real
// clock.
func NewTimerWaiter(d time.Duration, clk clock.Clock) *TimerWaiter {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &TimerWaiter{duration: d, clock: clk}
}

// Duration is the settle window.
func (w *TimerWaiter) Duration() time.Duration {
	return w.duration
}

// Wait ignores targets. It returns ctx.Err() when ctx ends first.
func (w *TimerWaiter) Wait(ctx context.Context, targets []inventory.HostEntry) error {
	if w.duration <= 0 {
		return ctx.Err()
	}
	logging.Debug(subsystem, "Settling for %s", w.duration)

	t := w.clock.NewTimer(w.duration)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}

// NotReadyError lists the targets that never accepted a connection.
type NotReadyError struct {
	Pending []inventory.HostEntry
	Timeout time.Duration
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%d target(s) not accepting connections after %s, first %s", len(e.Pending), e.Timeout, e.Pending[0])
}

// DialFunc opens a connection, like (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ProbeWaiter polls TCP connects.
type ProbeWaiter struct {
	timeout  time.Duration
	interval time.Duration
	dial     DialFunc
}

// NewProbeWaiter returns a probe giving up after timeout and retrying every
// interval.
func NewProbeWaiter(timeout, interval time.Duration) *ProbeWaiter {
	dialer := &net.Dialer{Timeout: 3 * time.Second}
	return &ProbeWaiter{timeout: timeout, interval: interval, dial: dialer.DialContext}
}

// WithDialer replaces the dial function.
func (w *ProbeWaiter) WithDialer(dial DialFunc) *ProbeWaiter {
	w.dial = dial
	return w
}

// Wait returns nil once every target accepted one connection. Targets that
// accepted are not probed again. On timeout the result is a *NotReadyError;
// when ctx ends first it is ctx.Err().
func (w *ProbeWaiter) Wait(ctx context.Context, targets []inventory.HostEntry) error {
	pending := append([]inventory.HostEntry(nil), targets...)

	err := wait.PollUntilContextTimeout(ctx, w.interval, w.timeout, true, func(ctx context.Context) (bool, error) {
		remaining := pending[:0]
		for _, target := range pending {
			if !w.accepts(ctx, target) {
				remaining = append(remaining, target)
			}
		}
		pending = remaining
		if len(pending) > 0 {
			logging.Debug(subsystem, "%d target(s) still pending, first %s", len(pending), pending[0])
		}
		return len(pending) == 0, nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if wait.Interrupted(err) && len(pending) > 0 {
		return &NotReadyError{Pending: pending, Timeout: w.timeout}
	}
	return err
}

func (w *ProbeWaiter) accepts(ctx context.Context, target inventory.HostEntry) bool {
	address := net.JoinHostPort(target.Address, strconv.Itoa(target.Port))
	conn, err := w.dial(ctx, "tcp", address)
	if err != nil {
		return false
	}
	conn.Close()
	logging.HostDebug(subsystem, target.Address, "Port %d accepts connections", target.Port)
	return true
}
