package tween

import (
	"fmt"
	"math"
)

// Easing maps normalized progress in [0,1] to eased progress.
type Easing func(t float32) float32

func Linear(t float32) float32 { return t }

func QuadIn(t float32) float32 { return t * t }

func QuadOut(t float32) float32 { return t * (2 - t) }

func QuadInOut(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func SineInOut(t float32) float32 {
	return float32(-(math.Cos(math.Pi*float64(t)) - 1) / 2)
}

var easings = map[string]Easing{
	"linear":       Linear,
	"none":         Linear,
	"quad.in":      QuadIn,
	"quad.out":     QuadOut,
	"quad.inOut":   QuadInOut,
	"power1.in":    QuadIn,
	"power1.out":   QuadOut,
	"power1.inOut": QuadInOut,
	"sine.inOut":   SineInOut,
}

// ParseEasing resolves an easing by name. The empty name is linear.
func ParseEasing(name string) (Easing, error) {
	if name == "" {
		return Linear, nil
	}
	if e, ok := easings[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("tween: unknown easing %q", name)
}
