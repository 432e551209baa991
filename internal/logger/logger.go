package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared engine logger. It is a no-op logger until Init is called.
var Log = zap.NewNop()

var once sync.Once

// Init installs a development logger with a colored console encoder.
// Calling it more than once has no effect.
func Init() {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
		l, err := cfg.Build()
		if err != nil {
			return
		}
		Log = l.Named("wallrig")
	})
}

// SetLevel adjusts verbosity of loggers built by Init; used by the scene file's debug flag.
func SetLevel(debug bool) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	Log = Log.WithOptions(zap.IncreaseLevel(level))
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
