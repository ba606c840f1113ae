package driver

import (
	"context"
	"sync"
	"time"
)

// Task is a handle to a recurring job started by Every
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Every calls fn once per interval until ctx is done or the task is cancelled; calls never overlap.
// fn receives the task's context, which is done once the task is cancelled.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a tick racing with cancellation is dropped
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()
	return t
}

// Cancel stops the task and waits for an in-flight call to return
func (t *Task) Cancel() {
	t.cancel()
	<-t.done
}

// Done is closed once the task has stopped
func (t *Task) Done() <-chan struct{} {
	return t.done
}

/*
Clock owns at most one recurring task.

Starting a clock that is already running replaces the old task. The tick
function runs on the clock's goroutine; it must not call Start or Stop.
*/
type Clock struct {
	mu       sync.Mutex
	tick     func(ctx context.Context)
	task     *Task
	interval time.Duration
}

// NewClock returns a stopped clock calling tick on every beat
func NewClock(tick func(ctx context.Context)) *Clock {
	return &Clock{tick: tick}
}

// Start cancels any running task and starts a new one with the given interval
func (c *Clock) Start(ctx context.Context, interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.task != nil {
		c.task.Cancel()
	}
	c.interval = interval
	c.task = Every(ctx, interval, c.tick)
}

// Stop cancels the running task, if any
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

// Running reports whether a task is active
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.task == nil {
		return false
	}
	select {
	case <-c.task.Done():
		return false
	default:
		return true
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Done returns the current task's Done channel, or a closed channel when stopped
func (c *Clock) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.task == nil {
		return closedChan
	}
	return c.task.Done()
}

// Interval returns the interval of the last Start
func (c *Clock) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}
