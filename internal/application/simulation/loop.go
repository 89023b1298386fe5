package simulation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/logging"
)

// ErrStopped is returned by Execute once the loop has shut down.
var ErrStopped = errors.New("simulation loop stopped")

// taskBuffer sizes the Execute inbox. Submissions beyond it block until the
// loop catches up.
const taskBuffer = 128

// TickMetrics records simulation timing samples.
type TickMetrics interface {
	ObserveTick(duration time.Duration)
}

// Loop drives the single authoritative simulation goroutine. Every world
// mutation runs on that goroutine: the ticker fires Step, and command or
// query handlers funnel their work in through Execute. Nothing else touches
// the world, so world and building state need no locks.
type Loop struct {
	world    *World
	interval time.Duration
	logger   logging.Logger
	metrics  TickMetrics

	tasks  chan func()
	stopCh chan struct{}
	done   chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewLoop creates a simulation loop ticking at the given interval.
// logger is optional.
func NewLoop(world *World, tickInterval time.Duration, logger logging.Logger) *Loop {
	if tickInterval <= 0 {
		tickInterval = 100 * time.Millisecond
	}
	return &Loop{
		world:    world,
		interval: tickInterval,
		logger:   logger,
		tasks:    make(chan func(), taskBuffer),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetMetrics installs a tick-duration recorder. Call before Start.
func (l *Loop) SetMetrics(metrics TickMetrics) {
	l.metrics = metrics
}

// World returns the world this loop drives.
func (l *Loop) World() *World {
	return l.world
}

// Start launches the simulation goroutine. Subsequent calls are no-ops.
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		l.log("INFO", "Simulation loop started", map[string]interface{}{
			"tick_interval": l.interval.String(),
		})
		go l.run()
	})
}

// Stop signals the loop to exit and waits until queued tasks have drained.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
	<-l.done
	l.log("INFO", "Simulation loop stopped", nil)
}

// Execute runs fn on the simulation goroutine and waits for it to finish.
// Returns ErrStopped when the loop is no longer accepting work. If ctx
// expires after submission the call returns early but fn may still run.
func (l *Loop) Execute(ctx context.Context, fn func()) error {
	if fn == nil {
		return nil
	}

	ran := make(chan struct{})
	task := func() {
		defer close(ran)
		fn()
	}

	select {
	case l.tasks <- task:
	case <-l.stopCh:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ran:
		return nil
	case <-l.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the simulation goroutine body.
func (l *Loop) run() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-l.stopCh:
			l.drainTasks()
			return

		case task := <-l.tasks:
			task()

		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now

			started := time.Now()
			l.world.Step(delta)
			if l.metrics != nil {
				l.metrics.ObserveTick(time.Since(started))
			}
		}
	}
}

// drainTasks runs whatever was queued before the stop signal so no Execute
// caller is left waiting on work that will never run.
func (l *Loop) drainTasks() {
	for {
		select {
		case task := <-l.tasks:
			task()
		default:
			return
		}
	}
}

func (l *Loop) log(level, message string, metadata map[string]interface{}) {
	if l.logger != nil {
		l.logger.Log(level, message, metadata)
	}
}
