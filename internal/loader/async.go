package loader

import (
	"context"
	"sync"

	"WallRig/internal/logger"

	"go.uber.org/zap"
)

type Request struct {
	Name string
	Path string
}

type Result struct {
	Request
	Doc *Document
	Err error
}

// AsyncLoader decodes assets on background goroutines and hands the results
// back to the frame thread through Poll. Completion order is not guaranteed.
type AsyncLoader struct {
	// Decode is swapped out by tests; defaults to Decode.
	Decode func(path string) (*Document, error)

	results chan Result
	wg      sync.WaitGroup
}

func NewAsyncLoader(buffer int) *AsyncLoader {
	if buffer < 1 {
		buffer = 1
	}
	return &AsyncLoader{
		Decode:  Decode,
		results: make(chan Result, buffer),
	}
}

// Load starts one goroutine per request. Results that cannot be delivered
// before ctx is done are dropped.
func (l *AsyncLoader) Load(ctx context.Context, reqs ...Request) {
	for _, req := range reqs {
		l.wg.Add(1)
		go func(req Request) {
			defer l.wg.Done()
			doc, err := l.Decode(req.Path)
			if err != nil {
				logger.Log.Error("Asset load failed", zap.String("name", req.Name), zap.Error(err))
			}
			select {
			case l.results <- Result{Request: req, Doc: doc, Err: err}:
			case <-ctx.Done():
				logger.Log.Debug("Asset load abandoned", zap.String("name", req.Name))
			}
		}(req)
	}
}

// Poll drains every result delivered so far without blocking.
func (l *AsyncLoader) Poll() []Result {
	var out []Result
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Wait blocks until every started load has delivered or given up.
func (l *AsyncLoader) Wait() {
	l.wg.Wait()
}

// Slot holds a value that arrives once, typically from an asset load.
type Slot[T any] struct {
	value T
	ready bool
}

func (s *Slot[T]) Resolve(v T) bool {
	if s.ready {
		return false
	}
	s.value = v
	s.ready = true
	return true
}

func (s *Slot[T]) Get() (T, bool) {
	return s.value, s.ready
}

func (s *Slot[T]) Ready() bool {
	return s.ready
}
