package sequencer

import (
	"errors"
	"fmt"

	"WallRig/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultNearThreshold float32 = 5
	DefaultFarThreshold  float32 = -1
)

var ErrActionTable = errors.New("sequencer: action table does not match triggers")

// Trigger is an object whose depth gates a sequenced action. Depth reports
// ok=false while the object's asset is still loading.
type Trigger interface {
	Depth() (z float32, ok bool)
	SetDepth(z float32)
}

// Action is a one-shot effect bound to a trigger index or to the idle condition.
type Action func()

type Config struct {
	Velocity float32 // units per second along -z
	Near     float32 // advance when depth <= Near
	Far      float32 // idle while previous depth < Far
}

func DefaultConfig(velocity float32) Config {
	return Config{Velocity: velocity, Near: DefaultNearThreshold, Far: DefaultFarThreshold}
}

// Sequencer fires one action per trigger, strictly in trigger order, as each
// trigger scrolls past the near threshold. It is driven from the frame loop
// and is not safe for concurrent use.
type Sequencer struct {
	cfg      Config
	triggers []Trigger
	actions  []Action
	idle     Action
	next     int

	// OnFire, when set, observes each indexed firing after the action ran.
	OnFire func(index int)
}

// New builds a sequencer. An empty action table with a nil idle action makes a
// scroll-only sequencer; otherwise every trigger needs a non-nil action.
func New(cfg Config, triggers []Trigger, actions []Action, idle Action) (*Sequencer, error) {
	if len(actions) != 0 || idle != nil {
		if len(actions) != len(triggers) {
			return nil, fmt.Errorf("%w: %d triggers, %d actions", ErrActionTable, len(triggers), len(actions))
		}
		for i, a := range actions {
			if a == nil {
				return nil, fmt.Errorf("%w: no action for trigger %d", ErrActionTable, i)
			}
		}
	}
	return &Sequencer{
		cfg:      cfg,
		triggers: triggers,
		actions:  actions,
		idle:     idle,
	}, nil
}

// Next is the index of the next trigger still awaiting its action.
func (s *Sequencer) Next() int { return s.next }

func (s *Sequencer) Len() int { return len(s.triggers) }

func (s *Sequencer) Done() bool { return s.next >= len(s.triggers) }

func (s *Sequencer) Config() Config { return s.cfg }

// SetVelocity changes the scroll speed without touching the cursor.
func (s *Sequencer) SetVelocity(v float32) { s.cfg.Velocity = v }

func (s *Sequencer) sequenced() bool { return len(s.actions) > 0 }

// Update runs one frame: scroll loaded triggers, advance the cursor by at most
// one, then evaluate the idle guard.
func (s *Sequencer) Update(elapsed, delta float64) {
	step := s.cfg.Velocity * float32(delta)
	if step != 0 {
		for _, t := range s.triggers {
			if z, ok := t.Depth(); ok {
				t.SetDepth(z - step)
			}
		}
	}

	if !s.sequenced() {
		return
	}

	if s.next < len(s.triggers) {
		if z, ok := s.triggers[s.next].Depth(); ok && z <= s.cfg.Near {
			idx := s.next
			s.actions[idx]()
			s.next++
			logger.Log.Info("Trigger fired", zap.Int("index", idx), zap.Float32("z", z))
			if s.OnFire != nil {
				s.OnFire(idx)
			}
		}
	}

	if s.next > 0 && s.idle != nil {
		if z, ok := s.triggers[s.next-1].Depth(); ok && z < s.cfg.Far {
			s.idle()
		}
	}
}

// Slot is a trigger whose depth is stored inline. It starts absent and is
// resolved once with the depth the object had when it finished loading.
type Slot struct {
	z     float32
	ready bool
}

func (s *Slot) Resolve(z float32) bool {
	if s.ready {
		return false
	}
	s.z = z
	s.ready = true
	return true
}

func (s *Slot) Depth() (float32, bool) { return s.z, s.ready }

func (s *Slot) SetDepth(z float32) {
	if s.ready {
		s.z = z
	}
}
