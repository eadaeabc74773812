package rlog

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// SetLogger replaces the package logger
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

// SetLevel rebuilds the package logger with the given level name (debug, info, warn, error)
func SetLevel(level string) error {
	var lv zapcore.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lv)
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// Logger returns the current package logger
func Logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Println calls l.Output to print to the logger.
func Println(v ...interface{}) {
	Logger().Info(fmt.Sprintln(v...))
}

// Printf prints the formatted message at the info level
func Printf(format string, v ...interface{}) {
	Logger().Infof(format, v...)
}

// Infow logs a message with key value pairs
func Infow(msg string, kv ...interface{}) {
	Logger().Infow(msg, kv...)
}

// Debugw logs a debug message with key value pairs
func Debugw(msg string, kv ...interface{}) {
	Logger().Debugw(msg, kv...)
}

// Warnw logs a warning with key value pairs
func Warnw(msg string, kv ...interface{}) {
	Logger().Warnw(msg, kv...)
}

// Errorw logs an error with key value pairs
func Errorw(msg string, kv ...interface{}) {
	Logger().Errorw(msg, kv...)
}

// Fatal is equivalent to l.Print() followed by a call to os.Exit(1).
func Fatal(v ...interface{}) {
	Logger().Fatal(v...)
}

// Fatalln is equivalent to l.Println() followed by a call to os.Exit(1).
func Fatalln(v ...interface{}) {
	Logger().Fatal(fmt.Sprintln(v...))
}

// Sync flushes buffered log entries
func Sync() {
	_ = Logger().Sync()
}
