// Package queue bounds how many generation calls run at once.
package queue

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/panyaai/panya/internal/observe"
)

// Task is a unit of work admitted by the Limiter.
type Task func(ctx context.Context) (string, error)

// Limiter admits at most width tasks concurrently. Waiting tasks are admitted
// in arrival order. A failing task only fails its own caller.
type Limiter struct {
	sem      *semaphore.Weighted
	width    int64
	inFlight atomic.Int64
	metrics  *observe.Metrics
	logger   *slog.Logger
}

// New creates a limiter of the given width (minimum 1).
func New(log *slog.Logger, width int, metrics *observe.Metrics) *Limiter {
	if log == nil {
		log = slog.Default()
	}
	if width < 1 {
		width = 1
	}
	if metrics == nil {
		metrics = observe.Noop()
	}
	return &Limiter{
		sem:     semaphore.NewWeighted(int64(width)),
		width:   int64(width),
		metrics: metrics,
		logger:  log.With(slog.String("service", "queue")),
	}
}

// Width returns the configured concurrency.
func (l *Limiter) Width() int {
	return int(l.width)
}

// InFlight returns the number of tasks currently running under admission.
func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}

// Do waits for admission, runs task, and returns its result. If admission
// itself fails the task runs unguarded instead of being dropped.
func (l *Limiter) Do(ctx context.Context, task Task) (string, error) {
	l.metrics.Queued.Add(ctx, 1)
	err := l.sem.Acquire(ctx, 1)
	l.metrics.Queued.Add(ctx, -1)
	if err != nil {
		l.logger.Warn("admission failed, running task unguarded", slog.Any("error", err))
		return task(ctx)
	}
	defer l.sem.Release(1)

	l.inFlight.Add(1)
	l.metrics.InFlight.Add(ctx, 1)
	defer func() {
		l.inFlight.Add(-1)
		l.metrics.InFlight.Add(ctx, -1)
	}()
	return task(ctx)
}
