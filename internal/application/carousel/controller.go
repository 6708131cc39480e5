// Package carousel rotates through pages or items on a timer with manual
// override.
package carousel

import (
	"sync"
	"time"
)

// DefaultDwell is used when a DwellFunc reports a non-positive duration.
const DefaultDwell = 10 * time.Second

// MaxProgress is the progress scale; one full dwell period spans it.
// Progress reads 0..MaxProgress-1: the step that completes the scale
// advances the index and resets progress.
const MaxProgress = 100

// State describes whether the rotation timer should run
type State string

const (
	StateIdle    State = "idle"    // nothing to show
	StateSingle  State = "single"  // one page/item, timer disarmed
	StateCycling State = "cycling" // two or more, timer armed
)

// DwellFunc returns how long the rotation stays on the page or item at index.
type DwellFunc func(index int) time.Duration

// ConstantDwell returns a DwellFunc that always yields d.
func ConstantDwell(d time.Duration) DwellFunc {
	return func(int) time.Duration { return d }
}

// Snapshot is a consistent view of the rotation state.
type Snapshot struct {
	State    State `json:"state"`
	Index    int   `json:"index"`
	Count    int   `json:"count"`
	Progress int   `json:"progress"`
}

// Controller owns the current index of a rotation. One timer fire advances
// the progress by one step; after Steps steps the index advances. With
// Steps == 1 the index advances on every fire and progress stays 0.
type Controller struct {
	name  string
	steps int

	mu         sync.Mutex
	dwell      DwellFunc
	count      int
	index      int
	tick       int
	generation uint64
	changed    chan struct{}
	// armed is generation+1 as last seen by the runner, 0 before that.
	armed uint64
}

// NewController creates a controller that splits each dwell period into
// steps timer fires. steps < 1 is treated as 1.
func NewController(name string, steps int, dwell DwellFunc) *Controller {
	if steps < 1 {
		steps = 1
	}
	if dwell == nil {
		dwell = ConstantDwell(DefaultDwell)
	}
	return &Controller{
		name:    name,
		steps:   steps,
		dwell:   dwell,
		changed: make(chan struct{}),
	}
}

// Name returns the controller name.
func (c *Controller) Name() string {
	return c.name
}

// SetSource replaces the rotated set with count entries. The index and
// progress reset to 0 and any pending timer is cancelled and re-armed by
// the runner. A nil dwell keeps the current one.
func (c *Controller) SetSource(count int, dwell DwellFunc) {
	if count < 0 {
		count = 0
	}
	c.mu.Lock()
	c.count = count
	c.index = 0
	c.tick = 0
	if dwell != nil {
		c.dwell = dwell
	}
	c.generation++
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()
}

// Fire applies one timer fire.
func (c *Controller) Fire() {
	c.mu.Lock()
	c.fireLocked()
	c.mu.Unlock()
}

func (c *Controller) fireLocked() {
	if c.count < 2 {
		return
	}
	c.tick++
	if c.tick >= c.steps {
		c.tick = 0
		c.index = (c.index + 1) % c.count
	}
}

// fireIfCurrent applies a fire armed under generation gen. Fires armed
// before the last SetSource are dropped.
func (c *Controller) fireIfCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.fireLocked()
	return true
}

// Advance moves to the next entry, wrapping after the last one. It resets
// the progress but leaves the timer running.
func (c *Controller) Advance() {
	c.mu.Lock()
	if c.count > 0 {
		c.index = (c.index + 1) % c.count
		c.tick = 0
	}
	c.mu.Unlock()
}

// Retreat moves to the previous entry, wrapping before the first one.
func (c *Controller) Retreat() {
	c.mu.Lock()
	if c.count > 0 {
		c.index = (c.index - 1 + c.count) % c.count
		c.tick = 0
	}
	c.mu.Unlock()
}

// Interval returns the delay until the next timer fire.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intervalLocked()
}

func (c *Controller) intervalLocked() time.Duration {
	d := c.dwell(c.index)
	if d <= 0 {
		d = DefaultDwell
	}
	step := d / time.Duration(c.steps)
	if step <= 0 {
		step = time.Millisecond
	}
	return step
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:    stateFor(c.count),
		Index:    c.index,
		Count:    c.count,
		Progress: c.tick * MaxProgress / c.steps,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stateFor(c.count)
}

// arm reports what the runner should wait for next.
func (c *Controller) arm() (cycling bool, interval time.Duration, gen uint64, changed <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = c.generation + 1
	if stateFor(c.count) != StateCycling {
		return false, 0, c.generation, c.changed
	}
	return true, c.intervalLocked(), c.generation, c.changed
}

// settled reports whether the runner has picked up the latest SetSource.
func (c *Controller) settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed == c.generation+1
}

func stateFor(count int) State {
	switch {
	case count <= 0:
		return StateIdle
	case count == 1:
		return StateSingle
	default:
		return StateCycling
	}
}
