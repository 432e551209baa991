package scene

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"WallRig/internal/behaviour"
	"WallRig/internal/config"
	"WallRig/internal/loader"
	"WallRig/internal/logger"
	"WallRig/internal/renderer"
	"WallRig/internal/rig"
	"WallRig/internal/sequencer"
	"WallRig/internal/tuning"
	"WallRig/internal/tween"
	"WallRig/scripts"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	WallTag   = "wall"
	figureKey = "figure"
)

var (
	wallSize   = mgl32.Vec3{3, 2.5, 0.1}
	wallColor  = mgl32.Vec3{0.55, 0.58, 0.62}
	jointSize  = float32(0.08)
	jointColor = mgl32.Vec3{0.95, 0.55, 0.2}
)

// Scene owns the figure, the walls and the sequencer that choreographs them.
type Scene struct {
	Manager *behaviour.ComponentManager
	Camera  *renderer.Camera
	Lights  renderer.Lights
	Tuning  *tuning.Panel
	Loader  *loader.AsyncLoader

	cfg      *config.Scene
	figure   *behaviour.GameObject
	rigComp  *behaviour.RigComponent
	walls    []*behaviour.WallComponent
	seq      *sequencer.Sequencer
	tweens   *tween.Engine
	animator *rig.LazyAnimator
	player   *rig.Player
	ease     tween.Easing
	velocity float32

	cancel context.CancelFunc
}

func New(cfg *config.Scene) (*Scene, error) {
	var ease tween.Easing = tween.Linear
	if cfg.Sequenced() {
		var err error
		if ease, err = tween.ParseEasing(cfg.Sequence.Ease); err != nil {
			return nil, err
		}
	}

	cam := renderer.NewCamera(cfg.Camera.Position, cfg.Camera.Target,
		cfg.Camera.Fov, cfg.Camera.Near, cfg.Camera.Far,
		cfg.Window.Width, cfg.Window.Height)
	cam.Damping = cfg.Camera.Damping

	s := &Scene{
		Manager: behaviour.NewComponentManager(),
		Camera:  cam,
		Lights: renderer.Lights{
			Ambient:     light(cfg.Lights.Ambient),
			Directional: light(cfg.Lights.Directional),
		},
		Tuning:   tuning.NewPanel(),
		Loader:   loader.NewAsyncLoader(len(cfg.Walls.Assets) + 1),
		cfg:      cfg,
		tweens:   tween.NewEngine(),
		animator: &rig.LazyAnimator{},
		ease:     ease,
		velocity: cfg.Walls.Velocity,
	}

	if err := s.buildFigure(); err != nil {
		return nil, err
	}
	s.buildWalls()
	if err := s.buildSequencer(); err != nil {
		return nil, err
	}
	s.registerTuning()
	return s, nil
}

func (s *Scene) buildFigure() error {
	fig := s.cfg.Figure
	s.figure = behaviour.NewGameObject("Figure")
	s.rigComp = behaviour.NewRigComponent(fig.Asset, fig.ArmJoints)
	s.figure.AddComponent(s.rigComp)

	mode, err := rig.ParseNudgeMode(fig.Nudge.Mode)
	if err != nil {
		return err
	}
	for _, name := range fig.Scripts {
		sc, err := behaviour.AttachScript(s.figure, name)
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		if nudge, ok := sc.Script.(*scripts.LimbNudgeScript); ok {
			nudge.Nudger = rig.NewNudger(fig.ArmJoints, fig.Nudge.Axis, fig.Nudge.Amplitude, mode, fig.Nudge.Seed)
		}
	}
	s.Manager.RegisterGameObject(s.figure)
	return nil
}

func (s *Scene) buildWalls() {
	for i, w := range s.cfg.Walls.Assets {
		obj := behaviour.NewGameObject(fmt.Sprintf("Wall%d", i+1))
		obj.Tag = WallTag
		obj.AddComponent(behaviour.NewWallComponent(i, w.Asset, w.Offset))
		s.Manager.RegisterGameObject(obj)
	}
	for _, obj := range s.Manager.FindGameObjectsWithTag(WallTag) {
		if wc, ok := obj.GetComponent("WallComponent").(*behaviour.WallComponent); ok {
			s.walls = append(s.walls, wc)
		}
	}
}

// buildSequencer binds one pose action per wall, or none for the scroll-only scene.
func (s *Scene) buildSequencer() error {
	triggers := make([]sequencer.Trigger, len(s.walls))
	for i, wc := range s.walls {
		triggers[i] = wc
	}

	var actions []sequencer.Action
	var idle sequencer.Action
	if seq := s.cfg.Sequence; seq != nil {
		for _, p := range seq.Poses {
			pose := p.Pose()
			actions = append(actions, func() { s.animator.AnimatePose(pose, seq.Duration) })
		}
		if len(seq.Idle) > 0 {
			pose := seq.Idle.Pose()
			idle = func() { s.animator.AnimatePose(pose, seq.Duration) }
		}
	}

	q, err := sequencer.New(s.cfg.SequencerConfig(), triggers, actions, idle)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.seq = q
	return nil
}

func (s *Scene) registerTuning() {
	cam := s.Tuning.Folder("camera")
	cam.Vec3("position", &s.Camera.Goal, -50, 50, 0.01)
	cam.Vec3("target", &s.Camera.GoalTarget, -50, 50, 0.01)
	cam.Add("fov", &s.Camera.Fov, 10, 120, 1)

	s.Tuning.Folder("walls").Add("velocity", &s.velocity, 0, 50, 0.1)

	lights := s.Tuning.Folder("lights")
	lights.Add("ambient", &s.Lights.Ambient.Intensity, 0, 2, 0.01)
	lights.Add("directional", &s.Lights.Directional.Intensity, 0, 2, 0.01)
	lights.Vec3("directional.position", &s.Lights.Directional.Position, -20, 20, 0.1)
}

// Start requests every asset and loads the tuning overrides file.
func (s *Scene) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	reqs := []loader.Request{{Name: figureKey, Path: s.cfg.Resolve(s.cfg.Figure.Asset)}}
	for i, w := range s.cfg.Walls.Assets {
		reqs = append(reqs, loader.Request{Name: wallKey(i), Path: s.cfg.Resolve(w.Asset)})
	}
	s.Loader.Load(ctx, reqs...)

	if s.cfg.Tuning.File == "" {
		return
	}
	path := s.cfg.Resolve(s.cfg.Tuning.File)
	if err := s.Tuning.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.Warn("Tuning file not applied", zap.String("file", path), zap.Error(err))
	}
	if s.cfg.Tuning.Watch {
		if err := s.Tuning.Watch(path); err != nil {
			logger.Log.Warn("Tuning watch disabled", zap.Error(err))
		}
	}
}

// Update advances one frame.
func (s *Scene) Update(t behaviour.Time) {
	if s.Tuning.Poll() {
		s.Camera.UpdateProjection()
	}
	s.drainLoader()

	if s.player != nil {
		s.player.Update(float32(t.Delta))
	}
	s.seq.SetVelocity(s.velocity)
	s.Manager.UpdateAll(t)
	s.seq.Update(t.Elapsed, t.Delta)
	s.tweens.Update(float32(t.Delta))
	s.Camera.Update()
}

func (s *Scene) drainLoader() {
	for _, res := range s.Loader.Poll() {
		if res.Err != nil {
			continue
		}
		if res.Name == figureKey {
			s.attachRig(res.Doc.Rig())
			continue
		}
		for i, wc := range s.walls {
			if res.Name != wallKey(i) {
				continue
			}
			if wc.Arrive(res.Doc) {
				z, _ := wc.Depth()
				logger.Log.Info("Wall arrived", zap.Int("index", i), zap.Float32("z", z))
			}
		}
	}
}

func (s *Scene) attachRig(r *rig.Rig) {
	s.rigComp.SetRig(r)
	s.animator.Target = rig.NewTweenAnimator(r, s.tweens, s.ease)

	joints := s.Tuning.Folder("joints")
	for _, name := range s.cfg.Figure.ArmJoints {
		j, ok := r.Joint(name)
		if !ok {
			logger.Log.Warn("Arm joint missing from figure", zap.String("joint", name))
			continue
		}
		joints.Vec3(name, &j.Rotation, -math.Pi, math.Pi, 0.01)
	}
	if len(r.Clips) > 0 {
		s.player = rig.NewPlayer(r, &r.Clips[0])
		logger.Log.Info("Playing clip", zap.String("clip", r.Clips[0].Name), zap.Float32("duration", r.Clips[0].Duration))
	}
	logger.Log.Info("Figure arrived", zap.Int("joints", len(r.Joints)), zap.Int("clips", len(r.Clips)))
}

// Boxes appends what the renderer should draw: one slab per arrived wall
// and a marker per figure joint. A wall slab sits at the wall's root node
// translation relative to the wall object.
func (s *Scene) Boxes(dst []renderer.Box) []renderer.Box {
	for _, wc := range s.walls {
		obj := wc.GetGameObject()
		if _, ok := wc.Depth(); !ok || obj == nil {
			continue
		}
		m := obj.Transform.Matrix()
		if doc, ok := obj.GetAsset().(*loader.Document); ok {
			o := doc.Origin()
			m = m.Mul4(mgl32.Translate3D(o.X(), o.Y(), o.Z()))
		}
		dst = append(dst, renderer.Box{
			Model:  m.Mul4(mgl32.Scale3D(wallSize.X(), wallSize.Y(), wallSize.Z())),
			Color:  wallColor,
			Radius: wallSize.Len() / 2,
		})
	}

	if r := s.Rig(); r != nil {
		root := s.figure.Transform.Matrix()
		for i := range r.Joints {
			m := root.Mul4(r.WorldMatrix(i)).Mul4(mgl32.Scale3D(jointSize, jointSize, jointSize))
			dst = append(dst, renderer.Box{Model: m, Color: jointColor})
		}
	}
	return dst
}

// Rig returns the figure's rig, or nil before it has arrived.
func (s *Scene) Rig() *rig.Rig {
	r, _ := s.figure.GetAsset().(*rig.Rig)
	return r
}

func (s *Scene) Sequencer() *sequencer.Sequencer { return s.seq }

func (s *Scene) Walls() []*behaviour.WallComponent { return s.walls }

// Close abandons pending loads, destroys the scene objects and stops
// watching the tuning file.
func (s *Scene) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.Loader.Wait()
	s.Manager.Clear()
	return s.Tuning.Close()
}

func light(l config.LightSpec) renderer.Light {
	return renderer.Light{Position: l.Position, Color: l.Color, Intensity: l.Intensity}
}

func wallKey(i int) string { return fmt.Sprintf("wall%d", i) }
