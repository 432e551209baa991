package rig

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

type NudgeMode int

const (
	NudgeSine NudgeMode = iota
	NudgeNoise
)

func ParseNudgeMode(s string) (NudgeMode, error) {
	switch s {
	case "", "sine":
		return NudgeSine, nil
	case "noise":
		return NudgeNoise, nil
	}
	return NudgeSine, fmt.Errorf("rig: unknown nudge mode %q", s)
}

// Nudger adds a small per-frame increment to one rotation axis of a set of
// limbs. The increment is relative, so it drifts the limbs back and forth.
type Nudger struct {
	Joints    []string
	Axis      int
	Amplitude float32
	Mode      NudgeMode

	noise *perlin.Perlin
}

func NewNudger(joints []string, axis int, amplitude float32, mode NudgeMode, seed int64) *Nudger {
	n := &Nudger{Joints: joints, Axis: axis, Amplitude: amplitude, Mode: mode}
	if mode == NudgeNoise {
		n.noise = perlin.NewPerlin(2, 2, 3, seed)
	}
	return n
}

// Offset is the increment applied at elapsed seconds.
func (n *Nudger) Offset(elapsed float64) float32 {
	switch n.Mode {
	case NudgeNoise:
		if n.noise != nil {
			return float32(n.noise.Noise1D(elapsed)) * n.Amplitude
		}
	}
	return float32(math.Sin(elapsed)) * n.Amplitude
}

// Apply nudges every listed joint present in r. Missing joints are skipped.
func (n *Nudger) Apply(r *Rig, elapsed float64) {
	if r == nil || n.Axis < 0 || n.Axis > 2 {
		return
	}
	off := n.Offset(elapsed)
	for _, name := range n.Joints {
		if j, ok := r.Joint(name); ok {
			j.Rotation[n.Axis] += off
		}
	}
}
