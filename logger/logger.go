// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ------------------- global logger -------------------

var (
	mu   sync.RWMutex
	base = newConsole(zapcore.DebugLevel)
	// file is the log file behind base, if any. It is closed when base is replaced.
	file *os.File
)

func newConsole(level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// LevelFor returns the minimum level logged in env. Production drops Debug.
func LevelFor(env string) zapcore.Level {
	if env == "production" {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// ------------------- logger initialization -------------------

// InitLogger replaces the startup logger. Output always goes to stdout; when dir
// is non-empty it is also appended as JSON to a timestamped file under dir.
func InitLogger(env, dir string) error {
	level := LevelFor(env)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(os.Stdout), level),
	}

	var out *os.File
	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		name := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
		if err != nil {
			return err
		}
		out = f
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(out), level))
	}

	replace(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("env", env)), out)
	return nil
}

// Set swaps the global logger. Tests use it with zaptest/observer cores.
func Set(l *zap.Logger) {
	replace(l, nil)
}

// replace installs l, writing to f, and closes the file of the logger it replaces.
func replace(l *zap.Logger, f *os.File) {
	mu.Lock()
	old, oldFile := base, file
	base, file = l, f
	mu.Unlock()

	if oldFile != nil {
		_ = old.Sync()
		_ = oldFile.Close()
	}
}

// L returns the global logger for callers that need a *zap.Logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.WithOptions(zap.AddCallerSkip(-1))
}

// Sync flushes any buffered file output.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// ------------------- leveled helpers -------------------

func Debug(msg string, fields ...zap.Field) { get().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { get().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { get().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { get().Error(msg, fields...) }
