package tuning

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrUnknownParam = errors.New("tuning: unknown param")

// Param is a numeric control bound to a live float32.
type Param struct {
	Folder string
	Name   string
	Min    float32
	Max    float32
	Step   float32

	value *float32
}

// Key is the dotted "folder.name" used by override files.
func (p *Param) Key() string {
	if p.Folder == "" {
		return p.Name
	}
	return p.Folder + "." + p.Name
}

func (p *Param) Value() float32 { return *p.value }

// set snaps v to a multiple of Step, clamps it to [Min, Max] and stores it.
func (p *Param) set(v float32) float32 {
	if p.Step > 0 {
		step := float64(p.Step)
		v = float32(math.Round(float64(v)/step) * step)
	}
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	*p.value = v
	return v
}

type Folder struct {
	Name  string
	panel *Panel
}

// Add binds ptr as folder.name. A second Add with the same key rebinds it.
func (f *Folder) Add(name string, ptr *float32, lo, hi, step float32) *Param {
	p := &Param{Folder: f.Name, Name: name, Min: lo, Max: hi, Step: step, value: ptr}
	f.panel.add(p)
	return p
}

// Vec3 binds the three components of v as name.x, name.y and name.z.
func (f *Folder) Vec3(name string, v *mgl32.Vec3, lo, hi, step float32) {
	for i, axis := range []string{"x", "y", "z"} {
		f.Add(name+"."+axis, &v[i], lo, hi, step)
	}
}

// Panel is the set of tunable params. It is not safe for concurrent use;
// file changes reach it through Poll on the frame goroutine.
type Panel struct {
	folders []*Folder
	params  map[string]*Param
	order   []string

	watcher *Watcher
	file    string
}

func NewPanel() *Panel {
	return &Panel{params: make(map[string]*Param)}
}

// Folder returns the named folder, creating it on first use.
func (p *Panel) Folder(name string) *Folder {
	for _, f := range p.folders {
		if f.Name == name {
			return f
		}
	}
	f := &Folder{Name: name, panel: p}
	p.folders = append(p.folders, f)
	return f
}

func (p *Panel) add(param *Param) {
	key := param.Key()
	if _, exists := p.params[key]; !exists {
		p.order = append(p.order, key)
	}
	p.params[key] = param
}

func (p *Panel) Param(key string) (*Param, bool) {
	param, ok := p.params[key]
	return param, ok
}

func (p *Panel) Len() int { return len(p.order) }

// Set stores v into the bound field and returns the value actually stored.
func (p *Panel) Set(key string, v float32) (float32, error) {
	param, ok := p.params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	return param.set(v), nil
}

func (p *Panel) Get(key string) (float32, error) {
	param, ok := p.params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	return param.Value(), nil
}

type Value struct {
	Key   string
	Value float32
}

// Snapshot lists every param in registration order.
func (p *Panel) Snapshot() []Value {
	out := make([]Value, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, Value{Key: key, Value: p.params[key].Value()})
	}
	return out
}

// Apply sets every known key and reports the unknown ones. Known keys are
// applied even when others fail.
func (p *Panel) Apply(values map[string]float32) error {
	var errs []error
	for key, v := range values {
		if _, err := p.Set(key, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
