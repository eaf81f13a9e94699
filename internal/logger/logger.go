// Package logger builds the zap logger shared by the relay components.
package logger

import (
	"net/http"

	"go.uber.org/zap"
)

type Logger struct {
	Log   *zap.Logger
	level zap.AtomicLevel
}

// New returns a logger that discards everything until Init is called.
func New() *Logger {
	return &Logger{
		Log:   zap.NewNop(),
		level: zap.NewAtomicLevel(),
	}
}

// Init replaces the no-op logger with a production JSON logger at level.
func (l *Logger) Init(level string) error {
	// уровень общий с LevelHandler, его можно менять на лету
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	// продакшн-конфигурация: JSON в stderr
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	l.level = lvl
	return nil
}

// LevelHandler reports the current level on GET and changes it on PUT with a
// body like {"level":"debug"}.
func (l *Logger) LevelHandler() http.Handler {
	return l.level
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func (l *Logger) Sync() {
	_ = l.Log.Sync()
}
