package carousel

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
)

// Runner drives a Controller from a clock. It is created by
// Controller.Start and must be released with Stop.
type Runner struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start arms the rotation timer. The timer is re-armed after every fire
// with the interval of the then-current entry, cancelled whenever the
// source changes, and left disarmed while fewer than two entries exist.
func (c *Controller) Start(ctx context.Context, clock clockwork.Clock) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	r := &Runner{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		c.run(ctx, clock)
	}()
	return r
}

// Stop cancels the timer and waits for the runner to exit.
func (r *Runner) Stop() {
	r.once.Do(r.cancel)
	<-r.done
}

// Done is closed once the runner has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (c *Controller) run(ctx context.Context, clock clockwork.Clock) {
	for {
		cycling, interval, gen, changed := c.arm()
		if !cycling {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				continue
			}
		}

		timer := clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-changed:
			timer.Stop()
		case <-timer.Chan():
			c.fireIfCurrent(gen)
		}
	}
}
