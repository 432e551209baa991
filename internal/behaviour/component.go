package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Time is the frame clock handed to every component update.
type Time struct {
	Elapsed float64 // seconds since the loop started
	Delta   float64 // seconds since the previous frame, 0 on the first
}

// Component is the base interface for all components
// Components can be attached to game objects
type Component interface {
	// Lifecycle methods
	Awake()        // Called when component is first attached
	Start()        // Called once before its first Update
	Update(t Time) // Called every frame
	OnDestroy()    // Called when component/object is destroyed

	// Component info
	GetEnabled() bool
	SetEnabled(bool)
	GetGameObject() *GameObject
	SetGameObject(*GameObject)
}

// BaseComponent provides default implementations for all Component methods
// Scripts can embed this to only override methods they need
type BaseComponent struct {
	enabled    bool
	gameObject *GameObject
}

func (c *BaseComponent) Awake()        {}
func (c *BaseComponent) Start()        {}
func (c *BaseComponent) Update(t Time) {}
func (c *BaseComponent) OnDestroy()    {}

func (c *BaseComponent) GetEnabled() bool {
	return c.enabled
}

func (c *BaseComponent) SetEnabled(enabled bool) {
	c.enabled = enabled
}

func (c *BaseComponent) GetGameObject() *GameObject {
	return c.gameObject
}

func (c *BaseComponent) SetGameObject(obj *GameObject) {
	c.gameObject = obj
}

// GameObject represents an object in the scene: the figure, a wall.
type GameObject struct {
	Name       string
	Tag        string
	Active     bool
	Transform  *Transform
	Components []Component
	started    []bool
	asset      interface{} // decoded asset (rig or document), set once loaded
}

// Transform component
type Transform struct {
	BaseComponent
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func (t *Transform) SetPosition(pos mgl32.Vec3) {
	t.Position = pos
}

// SetDepth moves the transform along z only.
func (t *Transform) SetDepth(z float32) {
	t.SetPosition(mgl32.Vec3{t.Position.X(), t.Position.Y(), z})
}

// Matrix is the model matrix: translate * rotate * scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// GameObject methods
func NewGameObject(name string) *GameObject {
	obj := &GameObject{
		Name:       name,
		Active:     true,
		Components: make([]Component, 0),
		Transform: &Transform{
			Position: mgl32.Vec3{0, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
	}
	obj.Transform.SetGameObject(obj)
	return obj
}

func (obj *GameObject) AddComponent(component Component) {
	component.SetGameObject(obj)
	component.SetEnabled(true)
	obj.Components = append(obj.Components, component)
	obj.started = append(obj.started, false)
	component.Awake()
}

// GetComponent returns the first component matching the given type name
func (obj *GameObject) GetComponent(typeName string) Component {
	for _, comp := range obj.Components {
		if comp != nil && GetComponentTypeName(comp) == typeName {
			return comp
		}
	}
	return nil
}

func (obj *GameObject) SetAsset(asset interface{}) {
	obj.asset = asset
}

func (obj *GameObject) GetAsset() interface{} {
	return obj.asset
}

func (obj *GameObject) internalStart() {
	if !obj.Active {
		return
	}

	for i, comp := range obj.Components {
		if comp.GetEnabled() && !obj.started[i] {
			comp.Start()
			obj.started[i] = true
		}
	}
}

func (obj *GameObject) internalUpdate(t Time) {
	if !obj.Active {
		return
	}

	// Components added after registration start on their first frame
	obj.internalStart()
	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Update(t)
		}
	}
}

func (obj *GameObject) Destroy() {
	for _, comp := range obj.Components {
		comp.OnDestroy()
	}
	obj.Active = false
}
