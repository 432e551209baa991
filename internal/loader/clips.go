package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"WallRig/internal/logger"
	"WallRig/internal/rig"

	"github.com/g3n/engine/loader/gltf"
	"go.uber.org/zap"
)

// buffers resolves glTF buffer bytes. A buffer without a URI is the GLB
// binary chunk.
type buffers struct {
	dir   string
	bin   []byte
	cache map[int][]byte
}

func newBuffers(dir string, bin []byte) *buffers {
	return &buffers{dir: dir, bin: bin, cache: make(map[int][]byte)}
}

func (b *buffers) get(g *gltf.GLTF, i int) ([]byte, error) {
	if data, ok := b.cache[i]; ok {
		return data, nil
	}
	if i < 0 || i >= len(g.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", i)
	}

	var (
		data []byte
		err  error
	)
	switch uri := g.Buffers[i].Uri; {
	case uri == "":
		data = b.bin
	case strings.HasPrefix(uri, "data:"):
		header, payload, ok := strings.Cut(uri, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("buffer %d: unsupported data URI", i)
		}
		data, err = base64.StdEncoding.DecodeString(payload)
	default:
		data, err = os.ReadFile(filepath.Join(b.dir, filepath.FromSlash(uri)))
	}
	if err != nil {
		return nil, fmt.Errorf("buffer %d: %w", i, err)
	}
	if len(data) < g.Buffers[i].ByteLength {
		return nil, fmt.Errorf("buffer %d: %d bytes, expected %d", i, len(data), g.Buffers[i].ByteLength)
	}
	b.cache[i] = data
	return data, nil
}

// floats reads a FLOAT accessor of the given element type.
func (b *buffers) floats(g *gltf.GLTF, ai int, typ string) ([]float32, error) {
	if ai < 0 || ai >= len(g.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", ai)
	}
	ac := g.Accessors[ai]
	if ac.Type != typ {
		return nil, fmt.Errorf("accessor %d: type %s, expected %s", ai, ac.Type, typ)
	}
	if ac.ComponentType != gltf.FLOAT {
		return nil, fmt.Errorf("accessor %d: component type %d not supported", ai, ac.ComponentType)
	}
	if ac.BufferView == nil || *ac.BufferView < 0 || *ac.BufferView >= len(g.BufferViews) {
		return nil, fmt.Errorf("accessor %d: no buffer view", ai)
	}
	bv := g.BufferViews[*ac.BufferView]
	buf, err := b.get(g, bv.Buffer)
	if err != nil {
		return nil, err
	}

	size := gltf.TypeSizes[typ]
	stride := size * 4
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	start := deref(bv.ByteOffset) + deref(ac.ByteOffset)
	if ac.Count > 0 && start+(ac.Count-1)*stride+size*4 > len(buf) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", ai)
	}

	out := make([]float32, 0, ac.Count*size)
	for n := 0; n < ac.Count; n++ {
		at := start + n*stride
		for c := 0; c < size; c++ {
			bits := binary.LittleEndian.Uint32(buf[at+c*4:])
			out = append(out, math.Float32frombits(bits))
		}
	}
	return out, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// decodeClip turns a glTF animation into joint channels. Node indices map
// one to one onto rig joints. Scale and morph weight channels are skipped.
func decodeClip(g *gltf.GLTF, b *buffers, a gltf.Animation, index int) rig.Clip {
	clip := rig.Clip{Name: a.Name}
	if clip.Name == "" {
		clip.Name = fmt.Sprintf("clip%d", index)
	}

	for _, src := range a.Channels {
		var ch rig.Channel
		var typ string
		switch src.Target.Path {
		case "translation":
			ch.Path, typ = rig.PathTranslation, gltf.VEC3
		case "rotation":
			ch.Path, typ = rig.PathRotation, gltf.VEC4
		default:
			logger.Log.Debug("Skipping animation channel",
				zap.String("clip", clip.Name),
				zap.String("path", src.Target.Path))
			continue
		}
		if src.Sampler < 0 || src.Sampler >= len(a.Samplers) {
			logger.Log.Warn("Animation channel has no sampler", zap.String("clip", clip.Name))
			continue
		}
		sampler := a.Samplers[src.Sampler]
		ch.Joint = src.Target.Node

		times, err := b.floats(g, sampler.Input, gltf.SCALAR)
		if err == nil {
			ch.Values, err = b.floats(g, sampler.Output, typ)
		}
		if err != nil {
			logger.Log.Warn("Animation channel not decoded", zap.String("clip", clip.Name), zap.Error(err))
			continue
		}
		ch.Times = times

		switch sampler.Interpolation {
		case "STEP":
			ch.Step = true
		case "CUBICSPLINE":
			ch.Values = splineValues(ch.Values, gltf.TypeSizes[typ])
		}
		if n := len(times); n > 0 && times[n-1] > clip.Duration {
			clip.Duration = times[n-1]
		}
		clip.Channels = append(clip.Channels, ch)
	}
	return clip
}

// splineValues keeps the value of each (in-tangent, value, out-tangent)
// triple, so cubic spline tracks play back linearly.
func splineValues(values []float32, width int) []float32 {
	out := make([]float32, 0, len(values)/3)
	for i := 0; i+3*width <= len(values); i += 3 * width {
		out = append(out, values[i+width:i+2*width]...)
	}
	return out
}

// glbBinary returns the BIN chunk of a GLB file, or nil when it has none.
func glbBinary(raw []byte) ([]byte, error) {
	r := bytes.NewReader(raw)
	var header gltf.GLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != gltf.GLBMagic {
		return nil, errors.New("invalid GLB magic")
	}
	for {
		var chunk gltf.GLBChunk
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if int64(chunk.Length) > int64(r.Len()) {
			return nil, errors.New("truncated GLB chunk")
		}
		offset := len(raw) - r.Len()
		if chunk.Type == gltf.GLBBin {
			return raw[offset : offset+int(chunk.Length)], nil
		}
		if _, err := r.Seek(int64(chunk.Length), io.SeekCurrent); err != nil {
			return nil, err
		}
	}
}
