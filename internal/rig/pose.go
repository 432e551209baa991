package rig

import (
	"WallRig/internal/logger"
	"WallRig/internal/tween"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Pose maps joint names to target Euler rotations in radians.
type Pose map[string]mgl32.Vec3

// Animator moves the figure towards a pose over duration seconds.
type Animator interface {
	AnimatePose(target Pose, duration float32)
}

// TweenAnimator animates poses with target-based tweens, so issuing the same
// pose repeatedly converges instead of accumulating.
type TweenAnimator struct {
	rig    *Rig
	engine *tween.Engine
	ease   tween.Easing
	warned map[string]bool
}

func NewTweenAnimator(r *Rig, engine *tween.Engine, ease tween.Easing) *TweenAnimator {
	return &TweenAnimator{rig: r, engine: engine, ease: ease, warned: make(map[string]bool)}
}

func (a *TweenAnimator) AnimatePose(target Pose, duration float32) {
	if a.rig == nil {
		return
	}
	for name, rot := range target {
		j, ok := a.rig.Joint(name)
		if !ok {
			if !a.warned[name] {
				logger.Log.Warn("Pose references unknown joint", zap.String("joint", name))
				a.warned[name] = true
			}
			continue
		}
		a.engine.To(&j.Rotation, rot, duration, a.ease)
	}
}

// LazyAnimator forwards to an Animator that may not exist yet, for actions
// bound before the figure asset has arrived.
type LazyAnimator struct {
	Target Animator
}

func (l *LazyAnimator) AnimatePose(target Pose, duration float32) {
	if l.Target == nil {
		return
	}
	l.Target.AnimatePose(target, duration)
}
