// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera that looks at a target and eases toward
// its goal position and target each frame, like damped orbit controls.
type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Target     mgl32.Vec3 // Look-at point
	Up         mgl32.Vec3
	Projection mgl32.Mat4

	// Goal and GoalTarget are what Position and Target converge to.
	Goal       mgl32.Vec3
	GoalTarget mgl32.Vec3

	// COLD DATA
	Fov         float32 // Vertical field of view in degrees
	Near        float32
	Far         float32
	AspectRatio float32
	Damping     float32 // Fraction of the remaining distance covered per update; 0 snaps
	Sensitivity float32 // Radians per pixel of orbit drag
	MinDistance float32
	MaxDistance float32
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Frustum struct {
	Planes [6]Plane
}

func NewCamera(position, target mgl32.Vec3, fov, near, far float32, width, height int32) *Camera {
	camera := Camera{
		Position:    position,
		Target:      target,
		Goal:        position,
		GoalTarget:  target,
		Up:          mgl32.Vec3{0, 1, 0},
		Fov:         fov,
		Near:        near,
		Far:         far,
		AspectRatio: 1,
		Sensitivity: 0.005,
		MinDistance: 0.5,
		MaxDistance: far / 2,
	}
	camera.SetViewport(width, height)
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

// SetViewport keeps the aspect ratio in sync with the framebuffer size.
// A zero height (minimised window) keeps the previous aspect.
func (c *Camera) SetViewport(width, height int32) {
	if width <= 0 || height <= 0 {
		c.UpdateProjection()
		return
	}
	c.SetAspectRatio(float32(width) / float32(height))
}

// MoveTo sets a new goal; Update eases toward it.
func (c *Camera) MoveTo(position, target mgl32.Vec3) {
	c.Goal = position
	c.GoalTarget = target
}

// Orbit rotates the goal position around the goal target. Pitch is kept
// short of the poles.
func (c *Camera) Orbit(dx, dy float32) {
	offset := c.Goal.Sub(c.GoalTarget)
	radius := offset.Len()
	if radius == 0 {
		return
	}
	theta := math.Atan2(float64(offset.X()), float64(offset.Z()))
	phi := math.Acos(float64(mgl32.Clamp(offset.Y()/radius, -1, 1)))

	theta -= float64(dx * c.Sensitivity)
	phi -= float64(dy * c.Sensitivity)
	const eps = 1e-3
	phi = math.Max(eps, math.Min(math.Pi-eps, phi))

	c.Goal = c.GoalTarget.Add(mgl32.Vec3{
		float32(float64(radius) * math.Sin(phi) * math.Sin(theta)),
		float32(float64(radius) * math.Cos(phi)),
		float32(float64(radius) * math.Sin(phi) * math.Cos(theta)),
	})
}

// Zoom scales the goal distance to the target, clamped to [MinDistance, MaxDistance].
func (c *Camera) Zoom(factor float32) {
	offset := c.Goal.Sub(c.GoalTarget)
	radius := offset.Len()
	if radius == 0 || factor <= 0 {
		return
	}
	next := mgl32.Clamp(radius*factor, c.MinDistance, c.MaxDistance)
	c.Goal = c.GoalTarget.Add(offset.Mul(next / radius))
}

// Update moves Position and Target toward their goals.
func (c *Camera) Update() {
	if c.Damping <= 0 || c.Damping >= 1 {
		c.Position = c.Goal
		c.Target = c.GoalTarget
		return
	}
	c.Position = c.Position.Add(c.Goal.Sub(c.Position).Mul(c.Damping))
	c.Target = c.Target.Add(c.GoalTarget.Sub(c.Target).Mul(c.Damping))
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

func (c *Camera) CalculateFrustum() Frustum {
	var frustum Frustum
	vp := c.GetViewProjection()

	// Left, right, bottom, top, near, far.
	frustum.Planes[0] = Plane{Normal: mgl32.Vec3{vp[3] + vp[0], vp[7] + vp[4], vp[11] + vp[8]}, Distance: vp[15] + vp[12]}
	frustum.Planes[1] = Plane{Normal: mgl32.Vec3{vp[3] - vp[0], vp[7] - vp[4], vp[11] - vp[8]}, Distance: vp[15] - vp[12]}
	frustum.Planes[2] = Plane{Normal: mgl32.Vec3{vp[3] + vp[1], vp[7] + vp[5], vp[11] + vp[9]}, Distance: vp[15] + vp[13]}
	frustum.Planes[3] = Plane{Normal: mgl32.Vec3{vp[3] - vp[1], vp[7] - vp[5], vp[11] - vp[9]}, Distance: vp[15] - vp[13]}
	frustum.Planes[4] = Plane{Normal: mgl32.Vec3{vp[3] + vp[2], vp[7] + vp[6], vp[11] + vp[10]}, Distance: vp[15] + vp[14]}
	frustum.Planes[5] = Plane{Normal: mgl32.Vec3{vp[3] - vp[2], vp[7] - vp[6], vp[11] - vp[10]}, Distance: vp[15] - vp[14]}

	for i := 0; i < 6; i++ {
		length := frustum.Planes[i].Normal.Len()
		frustum.Planes[i].Normal = frustum.Planes[i].Normal.Mul(1.0 / length)
		frustum.Planes[i].Distance /= length
	}

	return frustum
}

func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
