package tuning

import (
	"fmt"
	"os"
	"path/filepath"

	"WallRig/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ReadOverrides parses a flat "folder.param: value" YAML file.
func ReadOverrides(path string) (map[string]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tuning: read %s: %w", path, err)
	}
	values := make(map[string]float32)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("tuning: parse %s: %w", path, err)
	}
	return values, nil
}

// LoadFile applies an overrides file. Unknown keys are reported but do not
// stop the known ones from applying.
func (p *Panel) LoadFile(path string) error {
	values, err := ReadOverrides(path)
	if err != nil {
		return err
	}
	err = p.Apply(values)
	logger.Log.Info("Tuning applied",
		zap.String("file", path),
		zap.Int("params", len(values)),
		zap.Error(err))
	return err
}

// Watch reloads path whenever it changes on disk. Changes are applied by Poll.
func (p *Panel) Watch(path string) error {
	if p.watcher != nil {
		return fmt.Errorf("tuning: already watching %s", p.file)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("tuning: watch %s: %w", path, err)
	}
	w, err := NewWatcher(filepath.Dir(abs))
	if err != nil {
		return fmt.Errorf("tuning: watch %s: %w", path, err)
	}
	p.watcher = w
	p.file = abs
	return nil
}

// Poll applies pending file changes without blocking and reports whether
// anything was reloaded.
func (p *Panel) Poll() bool {
	if p.watcher == nil {
		return false
	}
	reloaded := false
	for {
		select {
		case name, ok := <-p.watcher.Events:
			if !ok {
				p.watcher = nil
				return reloaded
			}
			if filepath.Clean(name) != p.file {
				continue
			}
			if err := p.LoadFile(p.file); err != nil {
				logger.Log.Warn("Tuning reload failed", zap.String("file", p.file), zap.Error(err))
			}
			reloaded = true
		case err, ok := <-p.watcher.Errors:
			if !ok {
				p.watcher = nil
				return reloaded
			}
			logger.Log.Warn("Tuning watcher error", zap.Error(err))
		default:
			return reloaded
		}
	}
}

func (p *Panel) Close() error {
	if p.watcher == nil {
		return nil
	}
	w := p.watcher
	p.watcher = nil
	return w.Close()
}
