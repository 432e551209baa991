package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"WallRig/internal/logger"
	"WallRig/internal/rig"

	"github.com/g3n/engine/loader/gltf"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("loader: unsupported asset format")

// Node is a decoded scene-graph node. Rotation is XYZ Euler in radians.
type Node struct {
	Name        string
	Parent      int
	Children    []int
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
	HasMesh     bool
}

// Document is the engine-side view of a decoded model file.
type Document struct {
	Path  string
	Nodes []Node
	Roots []int
	Clips []rig.Clip
}

func (d *Document) Find(name string) (int, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Rig builds a joint hierarchy from every node of the document.
func (d *Document) Rig() *rig.Rig {
	r := rig.New()
	for _, n := range d.Nodes {
		r.AddJoint(n.Name, n.Parent, n.Translation, n.Rotation)
	}
	r.Clips = append(r.Clips, d.Clips...)
	return r
}

// Origin is the translation of the first root node.
func (d *Document) Origin() mgl32.Vec3 {
	if len(d.Roots) == 0 {
		return mgl32.Vec3{}
	}
	return d.Nodes[d.Roots[0]].Translation
}

// Decode reads a .glb or .gltf file.
func Decode(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}

	var (
		g   *gltf.GLTF
		bin []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		var raw []byte
		if raw, err = os.ReadFile(path); err == nil {
			if g, err = gltf.ParseBinReader(bytes.NewReader(raw), filepath.Dir(path)); err == nil {
				bin, err = glbBinary(raw)
			}
		}
	case ".gltf":
		g, err = gltf.ParseJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		logger.Log.Error("Failed to parse asset", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}

	doc := fromGLTF(g, newBuffers(filepath.Dir(path), bin))
	doc.Path = path
	logger.Log.Info("Asset decoded",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("clips", len(doc.Clips)))
	return doc, nil
}

func fromGLTF(g *gltf.GLTF, b *buffers) *Document {
	doc := &Document{Nodes: make([]Node, len(g.Nodes))}
	for i := range doc.Nodes {
		doc.Nodes[i].Parent = -1
	}

	for i, src := range g.Nodes {
		n := &doc.Nodes[i]
		n.Name = src.Name
		n.Children = append(n.Children, src.Children...)
		n.HasMesh = src.Mesh != nil
		n.Scale = mgl32.Vec3{1, 1, 1}
		if src.Translation != nil {
			n.Translation = mgl32.Vec3(*src.Translation)
		}
		if src.Scale != nil {
			n.Scale = mgl32.Vec3(*src.Scale)
		}
		if src.Rotation != nil {
			q := mgl32.Quat{W: src.Rotation[3], V: mgl32.Vec3{src.Rotation[0], src.Rotation[1], src.Rotation[2]}}
			n.Rotation = rig.EulerXYZ(q)
		}
		for _, c := range src.Children {
			if c >= 0 && c < len(doc.Nodes) {
				doc.Nodes[c].Parent = i
			}
		}
	}

	if g.Scene != nil && *g.Scene < len(g.Scenes) {
		doc.Roots = append(doc.Roots, g.Scenes[*g.Scene].Nodes...)
	} else if len(g.Scenes) > 0 {
		doc.Roots = append(doc.Roots, g.Scenes[0].Nodes...)
	} else {
		for i, n := range doc.Nodes {
			if n.Parent < 0 {
				doc.Roots = append(doc.Roots, i)
			}
		}
	}

	for i, a := range g.Animations {
		doc.Clips = append(doc.Clips, decodeClip(g, b, a, i))
	}
	return doc
}
