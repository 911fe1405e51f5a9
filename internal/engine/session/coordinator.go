// Package session runs the quiescence debounce and settles change sessions.
package session

import (
	"sync"
	"time"

	"go.trai.ch/lull/internal/core/domain"
)

// Coordinator arms a quiescence timer on activity and settles the session once
// the tree has been quiet for a full window. At most one settlement runs at a time.
type Coordinator struct {
	mu               sync.Mutex
	changed          *sync.Cond
	window           time.Duration
	settle           func()
	timer            *time.Timer
	gen              uint64
	state            domain.SessionState
	rearmAfterSettle bool
	closed           bool
	deadline         time.Time
	settlements      int
}

// NewCoordinator creates a coordinator that calls settle after window of quiet.
// A non-positive window falls back to domain.DefaultQuiescence.
func NewCoordinator(window time.Duration, settle func()) *Coordinator {
	if window <= 0 {
		window = domain.DefaultQuiescence
	}
	c := &Coordinator{
		window: window,
		settle: settle,
	}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// OnActivity signals that a change was observed. It does no I/O.
func (c *Coordinator) OnActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.state == domain.Settling {
		c.rearmAfterSettle = true
		return
	}
	c.armLocked()
}

// armLocked schedules a fresh timer. The caller holds c.mu.
func (c *Coordinator) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.window, func() { c.fire(gen) })
	c.deadline = time.Now().Add(c.window)
	c.state = domain.Armed
}

// fire runs when a timer expires. A timer that lost the race with a re-arm is ignored.
func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != domain.Armed {
		c.mu.Unlock()
		c.changed.Broadcast()
		return
	}
	c.beginLocked()
	c.mu.Unlock()
	c.changed.Broadcast()

	c.run()
}

// beginLocked moves an armed session to Settling. The caller holds c.mu.
func (c *Coordinator) beginLocked() {
	c.timer = nil
	c.deadline = time.Time{}
	c.state = domain.Settling
}

// run executes the settlement and returns the coordinator to Idle, or re-arms it
// when activity arrived while settling.
func (c *Coordinator) run() {
	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.settlements++
		c.state = domain.Idle
		if c.rearmAfterSettle && !c.closed {
			c.armLocked()
		}
		c.rearmAfterSettle = false
		c.changed.Broadcast()
	}()

	if c.settle != nil {
		c.settle()
	}
}

// Flush settles an armed session now and blocks until the settlement completes.
// If the timer already fired, the running settlement is left to finish on its own.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	if c.state != domain.Armed || c.timer == nil {
		c.mu.Unlock()
		return
	}
	if !c.timer.Stop() {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.beginLocked()
	c.mu.Unlock()

	c.run()
}

// Close stops accepting activity. With flush set, an armed session is settled first;
// otherwise a pending timer is cancelled and its burst is dropped. Close waits for an
// in-flight settlement to finish.
func (c *Coordinator) Close(flush bool) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if flush {
		c.Flush()
	}

	c.mu.Lock()
	c.rearmAfterSettle = false
	if c.state == domain.Armed && c.timer != nil && c.timer.Stop() {
		c.gen++
		c.timer = nil
		c.deadline = time.Time{}
		c.state = domain.Idle
	}
	// Armed here means the timer fired but its callback has not taken the lock yet.
	for c.state != domain.Idle {
		c.changed.Wait()
	}
	c.mu.Unlock()
}

// State returns the current session state.
func (c *Coordinator) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Settlements returns how many settlements have completed.
func (c *Coordinator) Settlements() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.settlements
}

// Deadline returns when the armed timer fires. It is zero unless the state is Armed.
func (c *Coordinator) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deadline
}

// Window returns the quiescence window.
func (c *Coordinator) Window() time.Duration {
	return c.window
}
