package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultScroll(t *testing.T) {
	scene, err := Default(VariantScroll)
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}

	if scene.Sequenced() {
		t.Error("Scroll variant should not carry a sequence")
	}
	if scene.Walls.Velocity != 1 {
		t.Errorf("Expected velocity 1, got %v", scene.Walls.Velocity)
	}
	if len(scene.Walls.Assets) != 5 {
		t.Fatalf("Expected 5 walls, got %d", len(scene.Walls.Assets))
	}
	for i, w := range scene.Walls.Assets {
		if want := float32(20 * (i + 1)); w.Offset != want {
			t.Errorf("wall %d: expected offset %v, got %v", i, want, w.Offset)
		}
	}
	if scene.Camera.Position != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Expected camera at (2,2,2), got %v", scene.Camera.Position)
	}
}

func TestDefaultChoreographed(t *testing.T) {
	scene, err := Default(VariantChoreographed)
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}

	if !scene.Sequenced() {
		t.Fatal("Choreographed variant should carry a sequence")
	}
	cfg := scene.SequencerConfig()
	if cfg.Velocity != 5 || cfg.Near != 5 || cfg.Far != -1 {
		t.Errorf("Unexpected sequencer config %+v", cfg)
	}
	if len(scene.Sequence.Poses) != 5 {
		t.Errorf("Expected 5 poses, got %d", len(scene.Sequence.Poses))
	}
	pose := scene.Sequence.Poses[0].Pose()
	if pose["arm_joint_L_1"] != (mgl32.Vec3{0, 0, 1.2}) {
		t.Errorf("Unexpected first pose %v", pose)
	}
}

func TestDefaultUnknownVariant(t *testing.T) {
	if _, err := Default("disco"); err == nil {
		t.Error("Expected error for unknown variant")
	}
}

func TestThresholdDefaults(t *testing.T) {
	var seq *SequenceSpec
	if seq.NearThreshold() != 5 || seq.FarThreshold() != -1 {
		t.Error("Expected default thresholds for a nil sequence")
	}

	zero := float32(0)
	seq = &SequenceSpec{Near: &zero}
	if seq.NearThreshold() != 0 {
		t.Errorf("Expected explicit zero near threshold, got %v", seq.NearThreshold())
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	scene, err := Default(VariantChoreographed)
	if err != nil {
		t.Fatal(err)
	}
	scene.Camera.Fov = 0
	scene.Figure.Scripts = append(scene.Figure.Scripts, "Teleport")
	scene.Sequence.Poses = scene.Sequence.Poses[:3]
	scene.Sequence.Ease = "bounce"

	err = scene.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Expected ErrInvalid, got %v", err)
	}
	for _, want := range []string{"fov", "Teleport", "5 walls but 3 poses", "bounce"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %q, got %v", want, err)
		}
	}
}

func TestLoadResolvesRelativeAssets(t *testing.T) {
	data, err := defaults.ReadFile("defaults/scroll.yaml")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	scene, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := scene.Resolve(scene.Figure.Asset); got != filepath.Join(dir, "models", "RiggedFigure.glb") {
		t.Errorf("Unexpected resolved path %s", got)
	}
	if got := scene.Resolve("/abs/wall.glb"); got != "/abs/wall.glb" {
		t.Errorf("Absolute paths should be kept, got %s", got)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("camera: [1, 2")); err == nil {
		t.Error("Expected unmarshal error")
	}
}
