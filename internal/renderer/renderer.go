package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

var Debug bool = false
var ClearColor = mgl32.Vec3{0.05, 0.05, 0.07}

type Light struct {
	Position  mgl32.Vec3 // Unused for ambient light
	Color     mgl32.Vec3
	Intensity float32
}

type Lights struct {
	Ambient     Light
	Directional Light // Shines from Position toward the origin
}

// DefaultLights is a white ambient fill plus a white key light above and to the left.
func DefaultLights() Lights {
	return Lights{
		Ambient:     Light{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.8},
		Directional: Light{Position: mgl32.Vec3{-5, 5, 0}, Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.6},
	}
}

// Direction is the normalised direction the light travels.
func (l Light) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return l.Position.Mul(-1).Normalize()
}

// Box is one flat-shaded cuboid to draw.
type Box struct {
	Model  mgl32.Mat4
	Color  mgl32.Vec3
	Radius float32 // Bounding sphere radius for culling; 0 disables culling
}

func (b Box) Center() mgl32.Vec3 {
	return b.Model.Col(3).Vec3()
}

type Render interface {
	Init(width, height int32) error
	Render(camera *Camera, lights Lights, boxes []Box)
	UpdateViewport(width, height int32)
	Cleanup()
}
