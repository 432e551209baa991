package tween

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Tween interpolates one Vec3 field towards a fixed target.
type Tween struct {
	target   *mgl32.Vec3
	from     mgl32.Vec3
	to       mgl32.Vec3
	duration float32
	elapsed  float32
	ease     Easing
}

func (t *Tween) To() mgl32.Vec3 { return t.to }

func (t *Tween) Progress() float32 {
	if t.duration <= 0 {
		return 1
	}
	return mgl32.Clamp(t.elapsed/t.duration, 0, 1)
}

func (t *Tween) Done() bool { return t.Progress() >= 1 }

func (t *Tween) apply() {
	p := t.ease(t.Progress())
	*t.target = t.from.Add(t.to.Sub(t.from).Mul(p))
}

// Engine owns the running tweens. At most one tween drives a given field.
type Engine struct {
	active map[*mgl32.Vec3]*Tween
	order  []*mgl32.Vec3
}

func NewEngine() *Engine {
	return &Engine{active: make(map[*mgl32.Vec3]*Tween)}
}

// To starts moving *target towards to over duration seconds. Asking for the
// target a running tween already heads to, or for the value the field already
// holds, is a no-op; any other request restarts from the current value.
func (e *Engine) To(target *mgl32.Vec3, to mgl32.Vec3, duration float32, ease Easing) *Tween {
	if target == nil {
		return nil
	}
	if ease == nil {
		ease = Linear
	}
	if running, ok := e.active[target]; ok {
		if running.to.ApproxEqual(to) {
			return running
		}
	} else if target.ApproxEqual(to) {
		return nil
	}

	tw := &Tween{target: target, from: *target, to: to, duration: duration, ease: ease}
	if _, ok := e.active[target]; !ok {
		e.order = append(e.order, target)
	}
	e.active[target] = tw
	if duration <= 0 {
		tw.apply()
	}
	return tw
}

// Kill stops the tween driving target, leaving the field where it is.
func (e *Engine) Kill(target *mgl32.Vec3) {
	if _, ok := e.active[target]; !ok {
		return
	}
	delete(e.active, target)
	e.compact()
}

// Update advances every running tween by dt seconds and retires finished ones.
func (e *Engine) Update(dt float32) {
	if len(e.active) == 0 {
		return
	}
	finished := false
	for _, target := range e.order {
		tw, ok := e.active[target]
		if !ok {
			continue
		}
		tw.elapsed += dt
		tw.apply()
		if tw.Done() {
			delete(e.active, target)
			finished = true
		}
	}
	if finished {
		e.compact()
	}
}

func (e *Engine) Active() int { return len(e.active) }

func (e *Engine) Running(target *mgl32.Vec3) (*Tween, bool) {
	tw, ok := e.active[target]
	return tw, ok
}

func (e *Engine) compact() {
	kept := e.order[:0]
	for _, target := range e.order {
		if _, ok := e.active[target]; ok {
			kept = append(kept, target)
		}
	}
	e.order = kept
}
