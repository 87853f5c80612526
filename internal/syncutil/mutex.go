package syncutil

import (
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/flightctl/fcs/internal/fcslog"
)

// LoggingMutex is the control loop's single exclusive lock. Only one tick
// is ever in flight, so ordinary lock contention should be rare; this
// type exists to make that assumption loud when it's wrong instead of
// hanging silently, the same role it plays in the teacher project around
// its own single-writer simulation state.
type LoggingMutex struct {
	mu  sync.Mutex
	acq time.Time
}

// Lock acquires the mutex, logging (and, if it takes more than 10s,
// dumping CPU/goroutine diagnostics) when acquisition is unexpectedly slow.
func (l *LoggingMutex) Lock(lg *fcslog.Logger) {
	start := time.Now()
	if l.mu.TryLock() {
		l.acq = time.Now()
		return
	}

	locked := make(chan struct{}, 1)
	go func() {
		l.mu.Lock()
		locked <- struct{}{}
	}()

	for {
		select {
		case <-locked:
			l.acq = time.Now()
			if w := l.acq.Sub(start); w > time.Second {
				lg.Warn("long wait to acquire control loop mutex", slog.Duration("wait", w))
			}
			return
		case <-time.After(10 * time.Second):
			usage, _ := cpu.Percent(time.Second, false)
			pct := 0.0
			if len(usage) > 0 {
				pct = usage[0]
			}
			lg.Error("unable to acquire control loop mutex after 10 seconds",
				slog.Int("cpu_pct", int(math.Round(pct))),
				slog.Int("goroutines", runtime.NumGoroutine()))
		}
	}
}

// Unlock releases the mutex, warning if it was held for an unexpectedly
// long time (a tick should never take anywhere close to a second).
func (l *LoggingMutex) Unlock(lg *fcslog.Logger) {
	if d := time.Since(l.acq); d > time.Second {
		lg.Warn("control loop mutex held for over 1 second", slog.Duration("held", d))
	}
	l.acq = time.Time{}
	l.mu.Unlock()
}
