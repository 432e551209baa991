package behaviour

import "fmt"

// TypedComponent is a component that names its own type for GetComponent
type TypedComponent interface {
	Component
	GetTypeName() string
}

// RigComponent marks the object carrying the rigged figure
type RigComponent struct {
	BaseComponent
	AssetPath string
	ArmJoints []string
}

func NewRigComponent(assetPath string, armJoints []string) *RigComponent {
	return &RigComponent{AssetPath: assetPath, ArmJoints: armJoints}
}

func (r *RigComponent) GetTypeName() string {
	return "RigComponent"
}

// SetRig attaches the decoded rig to the owning GameObject.
func (r *RigComponent) SetRig(rig interface{}) {
	if obj := r.GetGameObject(); obj != nil {
		obj.SetAsset(rig)
	}
}

// WallComponent marks a scrolling wall. Its depth is the owning object's
// z position, and it reports absent until the wall asset has loaded.
type WallComponent struct {
	BaseComponent
	Index     int
	AssetPath string
	Offset    float32

	loaded bool
}

func NewWallComponent(index int, assetPath string, offset float32) *WallComponent {
	return &WallComponent{Index: index, AssetPath: assetPath, Offset: offset}
}

func (w *WallComponent) GetTypeName() string {
	return "WallComponent"
}

// Arrive attaches the wall asset and places the wall at exactly its offset,
// whatever the asset's own node translations are. Later calls are ignored.
func (w *WallComponent) Arrive(asset interface{}) bool {
	obj := w.GetGameObject()
	if w.loaded || obj == nil {
		return false
	}
	obj.SetAsset(asset)
	obj.Transform.SetDepth(w.Offset)
	w.loaded = true
	return true
}

func (w *WallComponent) Depth() (float32, bool) {
	obj := w.GetGameObject()
	if !w.loaded || obj == nil {
		return 0, false
	}
	return obj.Transform.Position.Z(), true
}

func (w *WallComponent) SetDepth(z float32) {
	if obj := w.GetGameObject(); w.loaded && obj != nil {
		obj.Transform.SetDepth(z)
	}
}

// ScriptComponent wraps a user script
type ScriptComponent struct {
	BaseComponent
	ScriptName string
	Script     Component // The actual script instance
}

func NewScriptComponent(scriptName string, script Component) *ScriptComponent {
	return &ScriptComponent{
		ScriptName: scriptName,
		Script:     script,
	}
}

func (s *ScriptComponent) GetTypeName() string {
	return "Script:" + s.ScriptName
}

func (s *ScriptComponent) Awake() {
	if s.Script != nil {
		s.Script.SetGameObject(s.GetGameObject())
		s.Script.SetEnabled(true)
		s.Script.Awake()
	}
}

func (s *ScriptComponent) Start() {
	if s.Script != nil {
		s.Script.Start()
	}
}

func (s *ScriptComponent) Update(t Time) {
	if s.Script != nil && s.Script.GetEnabled() {
		s.Script.Update(t)
	}
}

func (s *ScriptComponent) OnDestroy() {
	if s.Script != nil {
		s.Script.OnDestroy()
	}
}

// GetComponentTypeName returns the registered type name of a component
func GetComponentTypeName(comp Component) string {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetTypeName()
	}
	return fmt.Sprintf("%T", comp)
}
