package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"WallRig/internal/rig"

	"github.com/g3n/engine/loader/gltf"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDecodeInvalidPath(t *testing.T) {
	_, err := Decode("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Decode(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

const figureGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "root", "children": [1, 2], "translation": [0, 1, 0]},
    {"name": "arm_joint_L_1", "translation": [0.5, 0.5, 0], "rotation": [0, 0, 0.3826834, 0.9238795]},
    {"name": "arm_joint_R_1", "translation": [-0.5, 0.5, 0]}
  ]
}`

func TestDecodeGLTFBuildsHierarchy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figure.gltf")
	if err := os.WriteFile(path, []byte(figureGLTF), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(doc.Nodes))
	}
	if len(doc.Roots) != 1 || doc.Roots[0] != 0 {
		t.Errorf("Expected root [0], got %v", doc.Roots)
	}
	if !doc.Origin().ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Expected origin (0,1,0), got %v", doc.Origin())
	}

	idx, ok := doc.Find("arm_joint_L_1")
	if !ok {
		t.Fatal("Expected to find left arm node")
	}
	if doc.Nodes[idx].Parent != 0 {
		t.Errorf("Expected parent 0, got %d", doc.Nodes[idx].Parent)
	}
	if !doc.Nodes[idx].Rotation.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0.7853982}, 1e-4) {
		t.Errorf("Expected 45 degree z rotation, got %v", doc.Nodes[idx].Rotation)
	}

	r := doc.Rig()
	if _, ok := r.Joint("arm_joint_R_1"); !ok {
		t.Error("Expected rig to contain right arm joint")
	}
}

func floatBytes(vals ...float32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// clipJSON describes a figure whose left arm turns 90 degrees about z over
// one second, plus a scale track that the rig has no use for. bufferURI is
// empty for GLB files.
func clipJSON(bufferURI string, length int) string {
	uri := ""
	if bufferURI != "" {
		uri = fmt.Sprintf(`"uri": %q, `, bufferURI)
	}
	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "root", "children": [1]},
    {"name": "arm_joint_L_1", "translation": [0.5, 0.5, 0]}
  ],
  "buffers": [{%s"byteLength": %d}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 8},
    {"buffer": 0, "byteOffset": 8, "byteLength": 32},
    {"buffer": 0, "byteOffset": 40, "byteLength": 24}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 2, "type": "SCALAR", "max": [1]},
    {"bufferView": 1, "componentType": 5126, "count": 2, "type": "VEC4"},
    {"bufferView": 2, "componentType": 5126, "count": 2, "type": "VEC3"}
  ],
  "animations": [{
    "name": "wave",
    "samplers": [
      {"input": 0, "output": 1},
      {"input": 0, "output": 2, "interpolation": "STEP"}
    ],
    "channels": [
      {"sampler": 0, "target": {"node": 1, "path": "rotation"}},
      {"sampler": 1, "target": {"node": 1, "path": "scale"}}
    ]
  }]
}`, uri, length)
}

func clipBuffer() []byte {
	half := float32(math.Sqrt2 / 2)
	buf := floatBytes(0, 1)
	buf = append(buf, floatBytes(0, 0, 0, 1, 0, 0, half, half)...)
	return append(buf, floatBytes(1, 1, 1, 2, 2, 2)...)
}

func checkWaveClip(t *testing.T, doc *Document) {
	t.Helper()
	if len(doc.Clips) != 1 {
		t.Fatalf("Expected 1 clip, got %d", len(doc.Clips))
	}
	clip := doc.Clips[0]
	if clip.Name != "wave" || clip.Duration != 1 {
		t.Errorf("Expected clip wave of 1s, got %q %v", clip.Name, clip.Duration)
	}
	if len(clip.Channels) != 1 {
		t.Fatalf("Expected only the rotation channel, got %d", len(clip.Channels))
	}
	ch := clip.Channels[0]
	if ch.Joint != 1 || ch.Path != rig.PathRotation || len(ch.Times) != 2 || len(ch.Values) != 8 {
		t.Errorf("Unexpected channel %+v", ch)
	}

	r := doc.Rig()
	rig.NewPlayer(r, &r.Clips[0]).Apply(0.5)
	arm, _ := r.Joint("arm_joint_L_1")
	if !arm.Rotation.ApproxEqualThreshold(mgl32.Vec3{0, 0, math.Pi / 4}, 1e-4) {
		t.Errorf("Expected arm at 45 degrees half way through, got %v", arm.Rotation)
	}
}

func TestDecodeGLTFClip(t *testing.T) {
	data := clipBuffer()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(data)
	path := filepath.Join(t.TempDir(), "figure.gltf")
	if err := os.WriteFile(path, []byte(clipJSON(uri, len(data))), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	checkWaveClip(t, doc)
}

func TestDecodeGLBClip(t *testing.T) {
	data := clipBuffer()
	js := []byte(clipJSON("", len(data)))
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}

	var glb bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(data)
	_ = binary.Write(&glb, binary.LittleEndian, gltf.GLBHeader{Magic: gltf.GLBMagic, Version: 2, Length: uint32(total)})
	_ = binary.Write(&glb, binary.LittleEndian, gltf.GLBChunk{Length: uint32(len(js)), Type: gltf.GLBJson})
	glb.Write(js)
	_ = binary.Write(&glb, binary.LittleEndian, gltf.GLBChunk{Length: uint32(len(data)), Type: gltf.GLBBin})
	glb.Write(data)

	path := filepath.Join(t.TempDir(), "figure.glb")
	if err := os.WriteFile(path, glb.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	checkWaveClip(t, doc)
}

func TestDecodeClipSkipsBadAccessor(t *testing.T) {
	data := clipBuffer()
	js := strings.Replace(clipJSON("clip.bin", len(data)), `"type": "VEC4"`, `"type": "VEC3"`, 1)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip.bin"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "figure.gltf")
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(doc.Clips) != 1 || len(doc.Clips[0].Channels) != 0 {
		t.Errorf("Expected the mistyped rotation track to be dropped, got %+v", doc.Clips)
	}
}
