package sequencer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	fired []int
	idle  int
}

func (r *recorder) actions(n int) []Action {
	out := make([]Action, n)
	for i := range out {
		i := i
		out[i] = func() { r.fired = append(r.fired, i) }
	}
	return out
}

func (r *recorder) idleAction() { r.idle++ }

func loadedSlots(depths ...float32) ([]*Slot, []Trigger) {
	slots := make([]*Slot, len(depths))
	triggers := make([]Trigger, len(depths))
	for i, z := range depths {
		slots[i] = &Slot{}
		slots[i].Resolve(z)
		triggers[i] = slots[i]
	}
	return slots, triggers
}

func newWallSequencer(t *testing.T, rec *recorder, triggers []Trigger) *Sequencer {
	t.Helper()
	seq, err := New(DefaultConfig(5), triggers, rec.actions(len(triggers)), rec.idleAction)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return seq
}

func TestSlotResolvesOnce(t *testing.T) {
	var s Slot
	if _, ok := s.Depth(); ok {
		t.Fatal("Expected fresh slot to be absent")
	}
	s.SetDepth(3)
	if _, ok := s.Depth(); ok {
		t.Error("SetDepth on an absent slot should not resolve it")
	}
	if !s.Resolve(20) {
		t.Error("Expected first Resolve to succeed")
	}
	if s.Resolve(40) {
		t.Error("Expected second Resolve to be rejected")
	}
	if z, _ := s.Depth(); z != 20 {
		t.Errorf("Expected depth 20, got %v", z)
	}
}

func TestNewRejectsMismatchedActionTable(t *testing.T) {
	_, triggers := loadedSlots(20, 40)
	rec := &recorder{}

	_, err := New(DefaultConfig(5), triggers, rec.actions(1), nil)
	if !errors.Is(err, ErrActionTable) {
		t.Errorf("Expected ErrActionTable, got %v", err)
	}

	actions := rec.actions(2)
	actions[1] = nil
	_, err = New(DefaultConfig(5), triggers, actions, nil)
	if !errors.Is(err, ErrActionTable) {
		t.Errorf("Expected ErrActionTable for nil action, got %v", err)
	}

	_, err = New(DefaultConfig(5), triggers, nil, rec.idleAction)
	if !errors.Is(err, ErrActionTable) {
		t.Errorf("Expected ErrActionTable for idle without actions, got %v", err)
	}
}

func TestScrollOnlyMovesTriggers(t *testing.T) {
	slots, triggers := loadedSlots(20, 40)
	seq, err := New(DefaultConfig(1), triggers, nil, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	seq.Update(0, 0)
	seq.Update(30, 30)

	if z, _ := slots[0].Depth(); z != -10 {
		t.Errorf("Expected wall 0 at -10, got %v", z)
	}
	if z, _ := slots[1].Depth(); z != 10 {
		t.Errorf("Expected wall 1 at 10, got %v", z)
	}
	if seq.Next() != 0 {
		t.Errorf("Scroll-only sequencer should never advance, got cursor %d", seq.Next())
	}
}

func TestFirstTickWithZeroDeltaFiresNothing(t *testing.T) {
	slots, triggers := loadedSlots(20, 40, 60, 80, 100)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	seq.Update(0, 0)

	if z, _ := slots[0].Depth(); z != 20 {
		t.Errorf("Expected no movement on zero delta, got %v", z)
	}
	if len(rec.fired) != 0 || rec.idle != 0 {
		t.Errorf("Expected no actions, got fired=%v idle=%d", rec.fired, rec.idle)
	}
}

func TestZeroDeltaFiresWhenAlreadyPastThreshold(t *testing.T) {
	_, triggers := loadedSlots(5, 40)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	seq.Update(0, 0)

	if diff := cmp.Diff([]int{0}, rec.fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
}

func TestFiveWallScenario(t *testing.T) {
	slots, triggers := loadedSlots(20, 40, 60, 80, 100)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	const dt = 0.5
	seq.Update(0, 0)

	// 20 - 2.5*6 == 5: wall 0 fires on tick 6 exactly at the threshold.
	for tick := 1; tick <= 5; tick++ {
		seq.Update(float64(tick)*dt, dt)
	}
	if len(rec.fired) != 0 {
		t.Fatalf("Expected nothing fired before tick 6, got %v", rec.fired)
	}
	seq.Update(6*dt, dt)
	if z, _ := slots[0].Depth(); z != 5 {
		t.Fatalf("Expected wall 0 at 5, got %v", z)
	}
	if diff := cmp.Diff([]int{0}, rec.fired); diff != "" {
		t.Errorf("fired mismatch after tick 6 (-want +got):\n%s", diff)
	}
	if seq.Next() != 1 {
		t.Errorf("Expected cursor 1, got %d", seq.Next())
	}

	prev := seq.Next()
	for tick := 7; tick <= 60; tick++ {
		seq.Update(float64(tick)*dt, dt)
		if seq.Next() < prev || seq.Next() > prev+1 {
			t.Fatalf("tick %d: cursor moved from %d to %d", tick, prev, seq.Next())
		}
		prev = seq.Next()
	}

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, rec.fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
	if !seq.Done() {
		t.Error("Expected sequencer to be done")
	}
}

func TestAtMostOneAdvancePerTick(t *testing.T) {
	_, triggers := loadedSlots(0, 0, 0)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	seq.Update(0, 0)
	if seq.Next() != 1 {
		t.Fatalf("Expected cursor 1 after one tick, got %d", seq.Next())
	}
	seq.Update(0.1, 0.1)
	seq.Update(0.2, 0.1)
	if diff := cmp.Diff([]int{0, 1, 2}, rec.fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
	seq.Update(0.3, 0.1)
	if len(rec.fired) != 3 {
		t.Errorf("Expected each action at most once, got %v", rec.fired)
	}
}

func TestAbsentTriggerBlocksCursor(t *testing.T) {
	first := &Slot{}
	first.Resolve(20)
	second := &Slot{}
	third := &Slot{}
	third.Resolve(0)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, []Trigger{first, second, third})

	for tick := 1; tick <= 10; tick++ {
		seq.Update(float64(tick), 1)
	}
	if diff := cmp.Diff([]int{0}, rec.fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
	if seq.Next() != 1 {
		t.Fatalf("Expected cursor stuck at 1, got %d", seq.Next())
	}

	// Late arrival already far behind the threshold still fires, then the
	// cursor reaches the third wall on the following tick.
	second.Resolve(-30)
	seq.Update(11, 1)
	seq.Update(12, 1)
	if diff := cmp.Diff([]int{0, 1, 2}, rec.fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
}

func TestActionNeverFiresAboveNear(t *testing.T) {
	slots, triggers := loadedSlots(5.5)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	seq.Update(0.1, 0.09)
	if z, _ := slots[0].Depth(); z <= 5 {
		t.Fatalf("Expected depth above 5, got %v", z)
	}
	if len(rec.fired) != 0 {
		t.Errorf("Expected no firing above threshold, got %v", rec.fired)
	}
	seq.Update(0.2, 0.02)
	if len(rec.fired) != 1 {
		t.Errorf("Expected firing once below threshold, got %v", rec.fired)
	}
}

func TestIdleIsLevelTriggered(t *testing.T) {
	slots, triggers := loadedSlots(-2, 40)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	// Tick 0 fires wall 0 and, with the cursor now at 1, the idle guard holds.
	seq.Update(0, 0)
	if seq.Next() != 1 {
		t.Fatalf("Expected cursor 1, got %d", seq.Next())
	}
	if rec.idle != 1 {
		t.Errorf("Expected idle on the same tick, got %d", rec.idle)
	}

	for tick := 1; tick <= 4; tick++ {
		seq.Update(float64(tick), 1)
	}
	if rec.idle != 5 {
		t.Errorf("Expected idle every tick, got %d", rec.idle)
	}

	// Wall 1 still moves while idle is firing; once it fires the guard looks at
	// wall 1, which is at 5 and therefore not behind the far threshold.
	slots[1].SetDepth(10)
	seq.Update(5, 1)
	if seq.Next() != 2 {
		t.Fatalf("Expected cursor 2, got %d", seq.Next())
	}
	if rec.idle != 5 {
		t.Errorf("Expected idle to stop once wall 1 fired, got %d", rec.idle)
	}
}

func TestIdleFarThresholdIsStrict(t *testing.T) {
	_, triggers := loadedSlots(-1)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)

	seq.Update(0, 0)
	if rec.idle != 0 {
		t.Errorf("Expected no idle at exactly the far threshold, got %d", rec.idle)
	}
}

func TestIdleWindowsInFiveWallRun(t *testing.T) {
	_, triggers := loadedSlots(20, 40, 60, 80, 100)
	var idleTicks []int
	tick := 0
	rec := &recorder{}
	seq, err := New(DefaultConfig(5), triggers, rec.actions(5), func() { idleTicks = append(idleTicks, tick) })
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	for tick = 1; tick <= 22; tick++ {
		seq.Update(float64(tick)*0.5, 0.5)
	}

	want := []int{9, 10, 11, 12, 13, 17, 18, 19, 20, 21}
	if diff := cmp.Diff(want, idleTicks); diff != "" {
		t.Errorf("idle ticks mismatch (-want +got):\n%s", diff)
	}
}

func TestOnFireObservesIndex(t *testing.T) {
	_, triggers := loadedSlots(0, 0)
	rec := &recorder{}
	seq := newWallSequencer(t, rec, triggers)
	var seen []int
	seq.OnFire = func(i int) { seen = append(seen, i) }

	seq.Update(0, 0)
	seq.Update(0, 0)

	if diff := cmp.Diff([]int{0, 1}, seen); diff != "" {
		t.Errorf("OnFire mismatch (-want +got):\n%s", diff)
	}
}
