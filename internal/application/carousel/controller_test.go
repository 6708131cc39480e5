package carousel

import (
	"testing"
	"time"
)

func TestController_States(t *testing.T) {
	c := NewController("classes", 1, ConstantDwell(7*time.Second))
	if got := c.State(); got != StateIdle {
		t.Fatalf("new controller state = %q, want idle", got)
	}

	c.SetSource(1, nil)
	if got := c.State(); got != StateSingle {
		t.Fatalf("state = %q, want single", got)
	}

	c.SetSource(3, nil)
	if got := c.State(); got != StateCycling {
		t.Fatalf("state = %q, want cycling", got)
	}

	c.SetSource(0, nil)
	if got := c.State(); got != StateIdle {
		t.Fatalf("state = %q, want idle", got)
	}
}

func TestController_FireWrapsAround(t *testing.T) {
	c := NewController("classes", 1, ConstantDwell(7*time.Second))
	c.SetSource(4, nil)

	want := []int{1, 2, 3, 0}
	for i, w := range want {
		c.Fire()
		if got := c.Snapshot().Index; got != w {
			t.Fatalf("after fire %d index = %d, want %d", i+1, got, w)
		}
	}
}

func TestController_AdvanceMatchesTimerCycle(t *testing.T) {
	manual := NewController("classes", 1, nil)
	timed := NewController("classes", 1, nil)
	manual.SetSource(4, nil)
	timed.SetSource(4, nil)

	for i := 0; i < 4; i++ {
		manual.Advance()
		timed.Fire()
		if manual.Snapshot().Index != timed.Snapshot().Index {
			t.Fatalf("step %d: manual %d != timed %d", i, manual.Snapshot().Index, timed.Snapshot().Index)
		}
	}
	if got := manual.Snapshot().Index; got != 0 {
		t.Fatalf("expected wraparound to 0, got %d", got)
	}
}

func TestController_RetreatWraps(t *testing.T) {
	c := NewController("news", 100, nil)
	c.SetSource(3, nil)

	c.Retreat()
	if got := c.Snapshot().Index; got != 2 {
		t.Fatalf("retreat from 0 = %d, want 2", got)
	}
	c.Advance()
	if got := c.Snapshot().Index; got != 0 {
		t.Fatalf("advance from 2 = %d, want 0", got)
	}
}

func TestController_NavigationWithoutEntriesIsNoop(t *testing.T) {
	c := NewController("news", 100, nil)
	c.Advance()
	c.Retreat()
	c.Fire()
	snap := c.Snapshot()
	if snap.Index != 0 || snap.Count != 0 || snap.State != StateIdle {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestController_ProgressSteps(t *testing.T) {
	c := NewController("news", 100, func(i int) time.Duration {
		return []time.Duration{5 * time.Second, 15 * time.Second}[i]
	})
	c.SetSource(2, nil)

	if got := c.Interval(); got != 50*time.Millisecond {
		t.Fatalf("interval = %v, want 50ms", got)
	}

	for i := 0; i < 99; i++ {
		c.Fire()
	}
	snap := c.Snapshot()
	if snap.Index != 0 || snap.Progress != 99 {
		t.Fatalf("after 99 fires: %+v", snap)
	}

	c.Fire()
	snap = c.Snapshot()
	if snap.Index != 1 || snap.Progress != 0 {
		t.Fatalf("after 100 fires: %+v", snap)
	}
	if got := c.Interval(); got != 150*time.Millisecond {
		t.Fatalf("interval for second item = %v, want 150ms", got)
	}
}

func TestController_ProgressStaysBelowScale(t *testing.T) {
	c := NewController("news", MaxProgress, ConstantDwell(time.Second))
	c.SetSource(3, nil)

	advances := 0
	last := c.Snapshot()
	for i := 0; i < 3*MaxProgress; i++ {
		c.Fire()
		snap := c.Snapshot()
		if snap.Progress < 0 || snap.Progress >= MaxProgress {
			t.Fatalf("fire %d: progress = %d out of range", i+1, snap.Progress)
		}
		if snap.Index != last.Index {
			advances++
			if last.Progress != MaxProgress-1 || snap.Progress != 0 {
				t.Fatalf("fire %d: advanced from progress %d to %d", i+1, last.Progress, snap.Progress)
			}
		}
		last = snap
	}
	if advances != 3 || last.Index != 0 {
		t.Fatalf("advances = %d, index = %d, want 3 and 0", advances, last.Index)
	}
}

func TestController_ManualNavigationResetsProgress(t *testing.T) {
	c := NewController("news", 100, ConstantDwell(10*time.Second))
	c.SetSource(2, nil)
	for i := 0; i < 40; i++ {
		c.Fire()
	}
	c.Advance()
	snap := c.Snapshot()
	if snap.Index != 1 || snap.Progress != 0 {
		t.Fatalf("unexpected snapshot after advance: %+v", snap)
	}
}

func TestController_NonPositiveDwellDefaults(t *testing.T) {
	c := NewController("news", 100, ConstantDwell(0))
	c.SetSource(2, nil)
	if got := c.Interval(); got != DefaultDwell/100 {
		t.Fatalf("interval = %v, want %v", got, DefaultDwell/100)
	}

	c.SetSource(2, ConstantDwell(-time.Second))
	if got := c.Interval(); got != DefaultDwell/100 {
		t.Fatalf("interval = %v, want %v", got, DefaultDwell/100)
	}
}

func TestController_SetSourceResets(t *testing.T) {
	c := NewController("news", 100, nil)
	c.SetSource(3, nil)
	c.Advance()
	c.Fire()

	c.SetSource(5, nil)
	snap := c.Snapshot()
	if snap.Index != 0 || snap.Progress != 0 || snap.Count != 5 {
		t.Fatalf("unexpected snapshot after SetSource: %+v", snap)
	}
}

func TestController_StaleFireDropped(t *testing.T) {
	c := NewController("classes", 1, nil)
	c.SetSource(3, nil)
	_, _, gen, _ := c.arm()

	c.SetSource(3, nil)
	if c.fireIfCurrent(gen) {
		t.Fatalf("fire armed before SetSource must be dropped")
	}
	if got := c.Snapshot().Index; got != 0 {
		t.Fatalf("index = %d, want 0", got)
	}
}
