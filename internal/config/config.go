package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"WallRig/internal/behaviour"
	"WallRig/internal/rig"
	"WallRig/internal/sequencer"
	"WallRig/internal/tween"

	// Registers the built-in scripts the scene file may attach.
	_ "WallRig/scripts"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

const (
	VariantScroll        = "scroll"
	VariantChoreographed = "choreographed"
)

var ErrInvalid = errors.New("config: invalid scene")

type WindowSpec struct {
	Title  string `yaml:"title"`
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
}

type CameraSpec struct {
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Damping  float32    `yaml:"damping"`
}

type LightSpec struct {
	Color     mgl32.Vec3 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  mgl32.Vec3 `yaml:"position"`
}

type LightsSpec struct {
	Ambient     LightSpec `yaml:"ambient"`
	Directional LightSpec `yaml:"directional"`
}

type NudgeSpec struct {
	Axis      int     `yaml:"axis"`
	Amplitude float32 `yaml:"amplitude"`
	Mode      string  `yaml:"mode"`
	Seed      int64   `yaml:"seed"`
}

type FigureSpec struct {
	Asset     string    `yaml:"asset"`
	ArmJoints []string  `yaml:"arm_joints"`
	Scripts   []string  `yaml:"scripts"`
	Nudge     NudgeSpec `yaml:"nudge"`
}

type WallSpec struct {
	Asset  string  `yaml:"asset"`
	Offset float32 `yaml:"offset"`
}

type WallsSpec struct {
	Velocity float32    `yaml:"velocity"`
	Assets   []WallSpec `yaml:"assets"`
}

// PoseSpec maps joint names to XYZ Euler rotations in radians.
type PoseSpec map[string]mgl32.Vec3

func (p PoseSpec) Pose() rig.Pose {
	out := make(rig.Pose, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type SequenceSpec struct {
	Near     *float32   `yaml:"near"`
	Far      *float32   `yaml:"far"`
	Duration float32    `yaml:"duration"`
	Ease     string     `yaml:"ease"`
	Poses    []PoseSpec `yaml:"poses"`
	Idle     PoseSpec   `yaml:"idle"`
}

func (s *SequenceSpec) NearThreshold() float32 {
	if s == nil || s.Near == nil {
		return sequencer.DefaultNearThreshold
	}
	return *s.Near
}

func (s *SequenceSpec) FarThreshold() float32 {
	if s == nil || s.Far == nil {
		return sequencer.DefaultFarThreshold
	}
	return *s.Far
}

type TuningSpec struct {
	File  string `yaml:"file"`
	Watch bool   `yaml:"watch"`
}

// Scene is the whole demo description. A nil Sequence selects the
// scroll-only variant.
type Scene struct {
	Name     string        `yaml:"name"`
	Debug    bool          `yaml:"debug"`
	Window   WindowSpec    `yaml:"window"`
	Camera   CameraSpec    `yaml:"camera"`
	Lights   LightsSpec    `yaml:"lights"`
	Figure   FigureSpec    `yaml:"figure"`
	Walls    WallsSpec     `yaml:"walls"`
	Sequence *SequenceSpec `yaml:"sequence"`
	Tuning   TuningSpec    `yaml:"tuning"`

	// Dir is where relative asset paths resolve from.
	Dir string `yaml:"-"`
}

func (s *Scene) Sequenced() bool { return s.Sequence != nil }

// SequencerConfig returns the thresholds and velocity the sequencer runs with.
func (s *Scene) SequencerConfig() sequencer.Config {
	return sequencer.Config{
		Velocity: s.Walls.Velocity,
		Near:     s.Sequence.NearThreshold(),
		Far:      s.Sequence.FarThreshold(),
	}
}

// Resolve joins a relative asset path with the scene directory.
func (s *Scene) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.Dir == "" {
		return path
	}
	return filepath.Join(s.Dir, path)
}

// Parse decodes a scene from YAML and validates it.
func Parse(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	scene.Dir = filepath.Dir(path)
	return scene, nil
}

// Default returns one of the embedded scenes.
func Default(variant string) (*Scene, error) {
	data, err := defaults.ReadFile("defaults/" + variant + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("config: unknown variant %q", variant)
	}
	return Parse(data)
}

// Validate reports configuration errors. It never touches the filesystem.
func (s *Scene) Validate() error {
	var errs []error
	if s.Camera.Fov <= 0 || s.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v out of range", s.Camera.Fov))
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes near=%v far=%v", s.Camera.Near, s.Camera.Far))
	}
	if s.Camera.Damping < 0 || s.Camera.Damping > 1 {
		errs = append(errs, fmt.Errorf("camera damping %v outside [0,1]", s.Camera.Damping))
	}
	if s.Figure.Asset == "" {
		errs = append(errs, errors.New("figure asset missing"))
	}
	if _, err := rig.ParseNudgeMode(s.Figure.Nudge.Mode); err != nil {
		errs = append(errs, err)
	}
	if s.Figure.Nudge.Axis < 0 || s.Figure.Nudge.Axis > 2 {
		errs = append(errs, fmt.Errorf("nudge axis %d", s.Figure.Nudge.Axis))
	}
	for _, name := range s.Figure.Scripts {
		if behaviour.CreateScript(name) == nil {
			errs = append(errs, fmt.Errorf("unknown script %q", name))
		}
	}
	for i, w := range s.Walls.Assets {
		if w.Asset == "" {
			errs = append(errs, fmt.Errorf("wall %d asset missing", i))
		}
	}
	if seq := s.Sequence; seq != nil {
		if len(seq.Poses) != len(s.Walls.Assets) {
			errs = append(errs, fmt.Errorf("%d walls but %d poses", len(s.Walls.Assets), len(seq.Poses)))
		}
		if seq.Duration < 0 {
			errs = append(errs, fmt.Errorf("sequence duration %v", seq.Duration))
		}
		if _, err := tween.ParseEasing(seq.Ease); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Find looks for name in the working directory, then next to the executable.
func Find(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
