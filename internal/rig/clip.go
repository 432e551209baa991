package rig

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

type ChannelPath int

const (
	PathTranslation ChannelPath = iota
	PathRotation
)

// Channel is the keyframe track of one joint property. Values holds three
// floats per key for translations and an (x, y, z, w) quaternion per key for
// rotations.
type Channel struct {
	Joint  int
	Path   ChannelPath
	Times  []float32
	Values []float32
	Step   bool
}

func (c *Channel) width() int {
	if c.Path == PathRotation {
		return 4
	}
	return 3
}

func (c *Channel) valid() bool {
	return len(c.Times) > 0 && len(c.Values) >= len(c.Times)*c.width()
}

// Clip is a keyframe animation carried by the figure asset.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// Player loops a clip over a rig, writing sampled values into the joints.
type Player struct {
	Clip *Clip
	rig  *Rig
	time float32
}

func NewPlayer(r *Rig, c *Clip) *Player {
	return &Player{Clip: c, rig: r}
}

func (p *Player) Time() float32 { return p.time }

// Update advances the clip by delta seconds, wrapping at its duration, and
// applies the pose at the new time.
func (p *Player) Update(delta float32) {
	if p.Clip == nil || p.rig == nil {
		return
	}
	p.time += delta
	if d := p.Clip.Duration; d > 0 {
		p.time = float32(math.Mod(float64(p.time), float64(d)))
	}
	p.Apply(p.time)
}

// Apply writes the clip's pose at time t into the rig. Channels targeting
// joints the rig does not have are skipped.
func (p *Player) Apply(t float32) {
	for i := range p.Clip.Channels {
		ch := &p.Clip.Channels[i]
		if ch.Joint < 0 || ch.Joint >= len(p.rig.Joints) || !ch.valid() {
			continue
		}
		j := p.rig.Joints[ch.Joint]
		switch ch.Path {
		case PathTranslation:
			j.Translation = ch.sampleVec3(t)
		case PathRotation:
			j.Rotation = EulerXYZ(ch.sampleQuat(t))
		}
	}
}

// segment returns the key before t and the blend factor toward the next key.
// Times before the first key or after the last hold the end values.
func (c *Channel) segment(t float32) (int, float32) {
	n := len(c.Times)
	if n == 1 || t <= c.Times[0] {
		return 0, 0
	}
	if t >= c.Times[n-1] {
		return n - 1, 0
	}
	i := sort.Search(n, func(i int) bool { return c.Times[i] > t }) - 1
	if c.Step {
		return i, 0
	}
	span := c.Times[i+1] - c.Times[i]
	if span <= 0 {
		return i, 0
	}
	return i, (t - c.Times[i]) / span
}

func (c *Channel) sampleVec3(t float32) mgl32.Vec3 {
	i, k := c.segment(t)
	a := c.vec3(i)
	if k == 0 {
		return a
	}
	return a.Add(c.vec3(i + 1).Sub(a).Mul(k))
}

func (c *Channel) sampleQuat(t float32) mgl32.Quat {
	i, k := c.segment(t)
	a := c.quat(i)
	if k == 0 {
		return a
	}
	return mgl32.QuatSlerp(a, c.quat(i+1), k)
}

func (c *Channel) vec3(i int) mgl32.Vec3 {
	v := c.Values[i*3:]
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func (c *Channel) quat(i int) mgl32.Quat {
	v := c.Values[i*4:]
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}.Normalize()
}

// EulerXYZ converts a unit quaternion to XYZ Euler angles, the inverse of
// mgl32.AnglesToQuat(x, y, z, mgl32.XYZ).
func EulerXYZ(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	y := float32(math.Asin(float64(mgl32.Clamp(m13, -1, 1))))
	if mgl32.Abs(m13) < 0.9999999 {
		x := float32(math.Atan2(float64(-m23), float64(m33)))
		z := float32(math.Atan2(float64(-m12), float64(m11)))
		return mgl32.Vec3{x, y, z}
	}
	x := float32(math.Atan2(float64(m32), float64(m22)))
	return mgl32.Vec3{x, y, 0}
}
