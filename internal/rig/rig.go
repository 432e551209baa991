package rig

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Joint is one named node of a rigged figure. Rotation holds Euler angles in
// radians (x, y, z) and is the field poses, nudges and tuning write to.
type Joint struct {
	Name        string
	Parent      int // -1 for roots
	Translation mgl32.Vec3
	Rest        mgl32.Vec3
	Rotation    mgl32.Vec3
}

// Quat converts the joint's Euler rotation (XYZ order) to a quaternion.
func (j *Joint) Quat() mgl32.Quat {
	return mgl32.AnglesToQuat(j.Rotation.X(), j.Rotation.Y(), j.Rotation.Z(), mgl32.XYZ)
}

type Rig struct {
	Joints []*Joint
	Clips  []Clip
	byName map[string]*Joint
}

func New() *Rig {
	return &Rig{byName: make(map[string]*Joint)}
}

// AddJoint appends a joint. Rotation starts at the rest rotation.
func (r *Rig) AddJoint(name string, parent int, translation, rest mgl32.Vec3) *Joint {
	j := &Joint{Name: name, Parent: parent, Translation: translation, Rest: rest, Rotation: rest}
	r.Joints = append(r.Joints, j)
	if name != "" {
		if _, dup := r.byName[name]; !dup {
			r.byName[name] = j
		}
	}
	return j
}

func (r *Rig) Joint(name string) (*Joint, bool) {
	j, ok := r.byName[name]
	return j, ok
}

func (r *Rig) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WorldMatrix composes the joint's transform with its ancestors'.
func (r *Rig) WorldMatrix(index int) mgl32.Mat4 {
	m := mgl32.Ident4()
	for i, n := index, 0; i >= 0 && i < len(r.Joints) && n <= len(r.Joints); i, n = r.Joints[i].Parent, n+1 {
		j := r.Joints[i]
		local := mgl32.Translate3D(j.Translation.X(), j.Translation.Y(), j.Translation.Z()).Mul4(j.Quat().Mat4())
		m = local.Mul4(m)
	}
	return m
}

// Reset returns every joint to its rest rotation.
func (r *Rig) Reset() {
	for _, j := range r.Joints {
		j.Rotation = j.Rest
	}
}
